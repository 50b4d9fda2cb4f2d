package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/repository"
)

// ErrEmptyPrompt rejects video generation requests with no text prompt.
var ErrEmptyPrompt = errors.New("text prompt is missing or empty")

// VideoGenerator produces a video file from a text prompt and returns the
// local path of the result. Generation itself is an external collaborator;
// this service only triggers it and records the outcome.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string, userID string) (string, error)
}

// VideoUsecase defines the business logic for triggering video generation and
// listing a user's generated videos.
type VideoUsecase interface {
	GenerateVideo(ctx context.Context, user *model.User, prompt string) (string, error)
	ListUserVideos(ctx context.Context, user *model.User) ([]string, error)
	DownloadVideo(ctx context.Context, videoURL string) (string, error)
}

type videoUsecase struct {
	videoRepo repository.VideoRepository
	generator VideoGenerator
	outputDir string
	logger    *zerolog.Logger
}

// NewVideoUsecase creates a new instance of VideoUsecase.
func NewVideoUsecase(
	videoRepo repository.VideoRepository,
	generator VideoGenerator,
	outputDir string,
	logger *zerolog.Logger,
) VideoUsecase {
	return &videoUsecase{
		videoRepo: videoRepo,
		generator: generator,
		outputDir: outputDir,
		logger:    logger,
	}
}

func (u *videoUsecase) GenerateVideo(ctx context.Context, user *model.User, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	videoPath, err := u.generator.Generate(ctx, prompt, user.ID.Hex())
	if err != nil {
		return "", err
	}

	if _, err := u.videoRepo.CreateVideo(ctx, &model.Video{
		UserID:    user.ID,
		VideoPath: videoPath,
	}); err != nil {
		return "", err
	}

	return path.Join(u.outputDir, filepath.Base(videoPath)), nil
}

func (u *videoUsecase) ListUserVideos(ctx context.Context, user *model.User) ([]string, error) {
	videos, err := u.videoRepo.GetVideosByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(videos))
	for _, video := range videos {
		paths = append(paths, video.VideoPath)
	}

	return paths, nil
}

// DownloadVideo fetches a remote video into the static output directory and
// returns the local path.
func (u *videoUsecase) DownloadVideo(ctx context.Context, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d downloading video", resp.StatusCode)
	}

	if err := os.MkdirAll(u.outputDir, 0o755); err != nil {
		return "", err
	}

	localPath := filepath.Join(u.outputDir, uuid.NewString()+".mp4")
	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}

	return localPath, nil
}
