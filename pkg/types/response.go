package types

// Envelope is the uniform API response body. Success responses carry Data,
// failures carry Error; Message and StatusCode are always set.
type Envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Error      *APIError      `json:"error,omitempty"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Meta       map[string]any `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
