package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Client calls the external text-to-video generation service and stores the
// produced file in the static output directory.
type Client struct {
	baseURL    string
	outputDir  string
	httpClient *http.Client
}

// New creates a generation client. Generation is slow, so the HTTP client
// carries a generous timeout.
func New(baseURL, outputDir string) *Client {
	return &Client{
		baseURL:   baseURL,
		outputDir: outputDir,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"user_id"`
}

// Generate sends the prompt to the generation service and writes the returned
// video to disk, returning the local path.
func (c *Client) Generate(ctx context.Context, prompt string, userID string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, UserID: userID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", err
	}

	localPath := filepath.Join(c.outputDir, uuid.NewString()+".mp4")
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
