package models

// StyleProfile is the palette and canvas size used by the renderer.
// Colours are "#rrggbb" strings.
type StyleProfile struct {
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	BackgroundColor  string `json:"background_color"`
	AccentColor      string `json:"accent_color"`
	PrimaryTextColor string `json:"primary_text_color"`
	MutedTextColor   string `json:"muted_text_color"`
}
