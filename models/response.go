package models

// SpecsResponse is the response for POST /api/v1/specs.
type SpecsResponse struct {
	Success       bool                  `json:"success"`
	Specification *VehicleSpecification `json:"specification,omitempty"`
	Timing        TimingInfo            `json:"timing"`
	Error         *ErrorDetail          `json:"error,omitempty"`
}

// PosterResponse is the response for POST /api/v1/posters.
type PosterResponse struct {
	Success bool `json:"success"`

	// OutputPath is where the poster was written on the server.
	OutputPath string `json:"output_path,omitempty"`

	// SheetPath is set when a Markdown sheet was requested.
	SheetPath string `json:"sheet_path,omitempty"`

	// PhotoSource names the waterfall step that supplied the photo
	// ("catalog", "bing", "duckduckgo", "generated"); empty when none did.
	PhotoSource string `json:"photo_source,omitempty"`

	Specification *VehicleSpecification `json:"specification,omitempty"`
	Timing        TimingInfo            `json:"timing"`
	Error         *ErrorDetail          `json:"error,omitempty"`
}

// TimingInfo provides a duration breakdown in milliseconds.
type TimingInfo struct {
	TotalMs   int64 `json:"total_ms"`
	ResolveMs int64 `json:"resolve_ms"`
	ImageMs   int64 `json:"image_ms,omitempty"`
	RenderMs  int64 `json:"render_ms,omitempty"`
}

// ErrorResponse is written by middleware that rejects a request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`

	// ActiveJobs counts requests currently holding a pipeline.
	ActiveJobs int64  `json:"active_jobs"`
	Version    string `json:"version"`
}
