package handlers

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"unsupported format"`
	Details string `json:"details,omitempty" example:"Định dạng file không được hỗ trợ"`
}

// StatusResponse is returned by the liveness endpoints
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports the loaded models
type ReadyResponse struct {
	Status             string `json:"status" example:"ready"`
	Device             string `json:"device" example:"cuda"`
	SpeechBackend      string `json:"speech_backend" example:"runtime"`
	TranslationBackend string `json:"translation_backend" example:"runtime"`
}
