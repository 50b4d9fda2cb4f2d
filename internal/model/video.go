package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Video records a generated video owned by a user.
type Video struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"user_id"`
	VideoPath string        `bson:"video_path"`
	CreatedAt time.Time     `bson:"created_at"`
}
