package models

// SpecsRequest is the payload for POST /api/v1/specs.
type SpecsRequest struct {
	// Make is the manufacturer name. Required.
	Make string `json:"make" binding:"required"`

	// Model is an optional free-text model query.
	Model string `json:"model,omitempty"`
}

// PosterRequest is the payload for POST /api/v1/posters.
type PosterRequest struct {
	Make  string `json:"make" binding:"required"`
	Model string `json:"model,omitempty"`

	// SkipPhoto renders the photo-less layout without running the image waterfall.
	SkipPhoto bool `json:"skip_photo,omitempty"`

	// Sheet also writes a Markdown spec sheet next to the poster.
	Sheet bool `json:"sheet,omitempty"`

	// WebhookURL receives a poster.completed or poster.failed event.
	WebhookURL string `json:"webhook_url,omitempty"`

	// WebhookSecret signs the event body with HMAC-SHA256 when set.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}
