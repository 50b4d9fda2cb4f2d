package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/repository"
)

// In-memory repository fakes. They mirror the MongoDB implementations'
// observable behavior, including mongo.ErrNoDocuments misses and the
// duplicate-key error shape, so the usecases under test cannot tell the
// difference.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.VerifiedAt != nil {
		user.VerifiedAt = params.VerifiedAt
	}
	user.UpdatedAt = time.Now()

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	delete(r.users, id)

	clone := *user
	return &clone, nil
}

// backdate shifts a user's updated_at into the past. Proof derivations have
// second granularity, so tests use this to make "updated since issuance"
// observable without sleeping.
func (r *fakeUserRepo) backdate(id string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.UpdatedAt = user.UpdatedAt.Add(-d)
	}
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session.ID = bson.NewObjectID()
	session.CreatedAt = now
	session.UpdatedAt = now

	clone := *session
	r.sessions[session.ID.Hex()] = &clone

	return session, nil
}

func (r *fakeSessionRepo) GetActiveSessionByAccessKey(
	_ context.Context,
	accessKey string,
	sessionID bson.ObjectID,
	userID bson.ObjectID,
) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID.Hex()]
	if !ok ||
		session.AccessKey != accessKey ||
		session.UserID != userID ||
		!session.ExpiresAt.After(time.Now()) {
		return nil, mongo.ErrNoDocuments
	}

	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) GetActiveSessionByRefreshKey(
	_ context.Context,
	refreshKey string,
	accessKey string,
	userID bson.ObjectID,
) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		if session.RefreshKey == refreshKey &&
			session.AccessKey == accessKey &&
			session.UserID == userID &&
			session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeSessionRepo) ExpireSession(_ context.Context, sessionID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	session, ok := r.sessions[sessionID.Hex()]
	if !ok || !session.ExpiresAt.After(now) {
		return mongo.ErrNoDocuments
	}

	session.ExpiresAt = now
	session.UpdatedAt = now

	return nil
}

func (r *fakeSessionRepo) MarkLoggedOut(_ context.Context, userID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, session := range r.sessions {
		if session.UserID == userID && session.ExpiresAt.After(now) {
			session.LogoutAt = &now
			session.ExpiresAt = now
			session.UpdatedAt = now
		}
	}

	return nil
}

// count returns the number of stored sessions.
func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// expireDirectly backdates a session, simulating natural TTL elapse.
func (r *fakeSessionRepo) expireDirectly(sessionID bson.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[sessionID.Hex()]; ok {
		session.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// onlySession returns the single stored session.
func (r *fakeSessionRepo) onlySession() *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		clone := *session
		return &clone
	}

	return nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos []model.Video
}

func (r *fakeVideoRepo) CreateVideo(_ context.Context, video *model.Video) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	video.ID = bson.NewObjectID()
	video.CreatedAt = time.Now()
	r.videos = append(r.videos, *video)

	return video, nil
}

func (r *fakeVideoRepo) GetVideosByUserID(_ context.Context, userID bson.ObjectID) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Video
	for _, video := range r.videos {
		if video.UserID == userID {
			out = append(out, video)
		}
	}

	return out, nil
}

type fakeGenerator struct {
	path string
	err  error
}

func (g *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	return g.path, g.err
}
