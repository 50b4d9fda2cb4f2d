package handler

import (
	"net/http"

	"github.com/cinematic-app/cinematic-api/internal/payload"
)

// GenerateVideo triggers video generation from a text prompt for the
// authenticated user.
func (h *Handler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not authorised")
		return
	}

	var req payload.TextPromptRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	videoURL, err := h.videos.GenerateVideo(r.Context(), user, req.Text)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.GenerateVideoResponse{VideoURL: videoURL})
}

// ListUserVideos returns the paths of the authenticated user's videos.
func (h *Handler) ListUserVideos(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not authorised")
		return
	}

	videos, err := h.videos.ListUserVideos(r.Context(), user)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.UserVideosResponse{Videos: videos})
}

// DownloadVideo fetches a remote video into the static output directory.
func (h *Handler) DownloadVideo(w http.ResponseWriter, r *http.Request) {
	videoURL := r.URL.Query().Get("video_url")
	if videoURL == "" {
		h.writeError(w, http.StatusBadRequest, "video_url query parameter is required")
		return
	}

	localPath, err := h.videos.DownloadVideo(r.Context(), videoURL)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.DownloadVideoResponse{VideoPath: localPath})
}
