package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cinematic-app/cinematic-api/internal/model"
)

// VideoRepository defines the interface for video-related database operations.
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *model.Video) (*model.Video, error)
	GetVideosByUserID(ctx context.Context, userID bson.ObjectID) ([]model.Video, error)
}

const videoCollection = "videos"

type videoMongoRepository struct {
	db *mongo.Database
}

// NewVideoMongoRepository creates a new MongoDB repository for videos.
func NewVideoMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) VideoRepository {
	collection := db.Collection(videoCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create video indexes")
	}

	return &videoMongoRepository{db: db}
}

func (r *videoMongoRepository) CreateVideo(ctx context.Context, video *model.Video) (*model.Video, error) {
	video.CreatedAt = time.Now()

	result, err := r.db.Collection(videoCollection).InsertOne(ctx, video)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		video.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return video, nil
}

func (r *videoMongoRepository) GetVideosByUserID(
	ctx context.Context,
	userID bson.ObjectID,
) ([]model.Video, error) {
	cursor, err := r.db.Collection(videoCollection).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}

	return videos, nil
}
