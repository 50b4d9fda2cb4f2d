package payload

type TextPromptRequest struct {
	Text string `json:"text" validate:"required"`
}

type GenerateVideoResponse struct {
	VideoURL string `json:"video_url"`
}

type UserVideosResponse struct {
	Videos []string `json:"videos"`
}

type DownloadVideoResponse struct {
	VideoPath string `json:"video_path"`
}
