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

// SessionRepository defines the interface for session-related database
// operations. A lookup that matches no document returns mongo.ErrNoDocuments;
// that is not an error at this layer, it signals an invalid or expired
// credential to the caller.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) (*model.Session, error)

	// GetActiveSessionByAccessKey matches an access-token presentation: the
	// access key, the session document itself and the owning user must all
	// line up and the session must not be expired.
	GetActiveSessionByAccessKey(
		ctx context.Context,
		accessKey string,
		sessionID bson.ObjectID,
		userID bson.ObjectID,
	) (*model.Session, error)

	// GetActiveSessionByRefreshKey matches a refresh-token presentation.
	GetActiveSessionByRefreshKey(
		ctx context.Context,
		refreshKey string,
		accessKey string,
		userID bson.ObjectID,
	) (*model.Session, error)

	// ExpireSession advances expires_at to now, consuming the session. The
	// update is conditional on the session still being live, so of two
	// concurrent refreshes presenting the same token exactly one wins; the
	// loser gets mongo.ErrNoDocuments.
	ExpireSession(ctx context.Context, sessionID bson.ObjectID) error

	// MarkLoggedOut stamps logout_at on all live sessions of a user and
	// expires them.
	MarkLoggedOut(ctx context.Context, userID bson.ObjectID) error
}

const sessionCollection = "sessions"

type sessionMongoRepository struct {
	db *mongo.Database
}

// NewSessionMongoRepository creates a new MongoDB repository for sessions and
// ensures the key lookup indexes exist.
func NewSessionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) SessionRepository {
	collection := db.Collection(sessionCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "access_key", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "refresh_key", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "expires_at", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session indexes")
	}

	return &sessionMongoRepository{db: db}
}

func (r *sessionMongoRepository) CreateSession(
	ctx context.Context,
	session *model.Session,
) (*model.Session, error) {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.db.Collection(sessionCollection).InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		session.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return session, nil
}

func (r *sessionMongoRepository) GetActiveSessionByAccessKey(
	ctx context.Context,
	accessKey string,
	sessionID bson.ObjectID,
	userID bson.ObjectID,
) (*model.Session, error) {
	result := r.db.Collection(sessionCollection).FindOne(ctx, bson.M{
		"access_key": accessKey,
		"_id":        sessionID,
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var session model.Session
	if err := result.Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionMongoRepository) GetActiveSessionByRefreshKey(
	ctx context.Context,
	refreshKey string,
	accessKey string,
	userID bson.ObjectID,
) (*model.Session, error) {
	result := r.db.Collection(sessionCollection).FindOne(ctx, bson.M{
		"refresh_key": refreshKey,
		"access_key":  accessKey,
		"user_id":     userID,
		"expires_at":  bson.M{"$gt": time.Now()},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var session model.Session
	if err := result.Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionMongoRepository) ExpireSession(ctx context.Context, sessionID bson.ObjectID) error {
	now := time.Now()

	// The expires_at guard makes the expiry a compare-and-swap: a session that
	// has already been consumed or has lapsed cannot be consumed again.
	result := r.db.Collection(sessionCollection).FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":        sessionID,
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{
			"expires_at": now,
			"updated_at": now,
		}},
	)

	return result.Err()
}

func (r *sessionMongoRepository) MarkLoggedOut(ctx context.Context, userID bson.ObjectID) error {
	now := time.Now()

	_, err := r.db.Collection(sessionCollection).UpdateMany(
		ctx,
		bson.M{
			"user_id":    userID,
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{
			"logout_at":  now,
			"expires_at": now,
			"updated_at": now,
		}},
	)

	return err
}
