package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display       string         `json:"message"`
	Code          string         `json:"code,omitempty"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// CodeFromErr returns the machine-readable code of the category the error is marked with
func CodeFromErr(err error) string {
	for _, m := range statusCodeMap {
		if Is(err, m.err) {
			return m.err.(*InternalError).Code
		}
	}
	return ErrCodeSystemError
}
