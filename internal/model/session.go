package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session binds a user to one issued access/refresh token pair. A session
// authenticates only while expires_at is in the future; refresh rotation and
// logout expire the row in place rather than deleting it, so the document
// doubles as audit history.
type Session struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     bson.ObjectID `bson:"user_id"`
	AccessKey  string        `bson:"access_key"`
	RefreshKey string        `bson:"refresh_key"`
	ExpiresAt  time.Time     `bson:"expires_at"`
	LogoutAt   *time.Time    `bson:"logout_at"`
	Disabled   bool          `bson:"disabled"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}
