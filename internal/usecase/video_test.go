package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/cinematic-app/cinematic-api/internal/model"
)

func newTestVideoUsecase(videoRepo *fakeVideoRepo, generator *fakeGenerator) VideoUsecase {
	logger := zerolog.Nop()
	return NewVideoUsecase(videoRepo, generator, "static", &logger)
}

func videoTestUser() *model.User {
	return &model.User{ID: bson.NewObjectID(), Email: "alice@example.com", IsActive: true}
}

func TestGenerateVideoEmptyPrompt(t *testing.T) {
	videoRepo := &fakeVideoRepo{}
	uc := newTestVideoUsecase(videoRepo, &fakeGenerator{path: "/tmp/out.mp4"})

	_, err := uc.GenerateVideo(context.Background(), videoTestUser(), "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Empty(t, videoRepo.videos)
}

func TestGenerateVideoPersistsRecord(t *testing.T) {
	videoRepo := &fakeVideoRepo{}
	uc := newTestVideoUsecase(videoRepo, &fakeGenerator{path: "/tmp/generated/clip.mp4"})
	user := videoTestUser()

	servedPath, err := uc.GenerateVideo(context.Background(), user, "a cat surfing a wave")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("static", "clip.mp4"), servedPath)

	require.Len(t, videoRepo.videos, 1)
	assert.Equal(t, user.ID, videoRepo.videos[0].UserID)
	assert.Equal(t, "/tmp/generated/clip.mp4", videoRepo.videos[0].VideoPath)
}

func TestGenerateVideoGeneratorFailure(t *testing.T) {
	videoRepo := &fakeVideoRepo{}
	generatorErr := errors.New("generator unavailable")
	uc := newTestVideoUsecase(videoRepo, &fakeGenerator{err: generatorErr})

	_, err := uc.GenerateVideo(context.Background(), videoTestUser(), "a cat surfing a wave")
	assert.ErrorIs(t, err, generatorErr)
	assert.Empty(t, videoRepo.videos)
}

func TestListUserVideosFiltersByUser(t *testing.T) {
	videoRepo := &fakeVideoRepo{}
	uc := newTestVideoUsecase(videoRepo, &fakeGenerator{})

	alice := videoTestUser()
	bob := videoTestUser()

	_, err := videoRepo.CreateVideo(context.Background(), &model.Video{UserID: alice.ID, VideoPath: "/v/a1.mp4"})
	require.NoError(t, err)
	_, err = videoRepo.CreateVideo(context.Background(), &model.Video{UserID: alice.ID, VideoPath: "/v/a2.mp4"})
	require.NoError(t, err)
	_, err = videoRepo.CreateVideo(context.Background(), &model.Video{UserID: bob.ID, VideoPath: "/v/b1.mp4"})
	require.NoError(t, err)

	paths, err := uc.ListUserVideos(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"/v/a1.mp4", "/v/a2.mp4"}, paths)
}

func TestListUserVideosEmpty(t *testing.T) {
	uc := newTestVideoUsecase(&fakeVideoRepo{}, &fakeGenerator{})

	paths, err := uc.ListUserVideos(context.Background(), videoTestUser())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
