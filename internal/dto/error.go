package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Message string `json:"message,omitempty"`
}
