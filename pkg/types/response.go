package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// PlainError is the flat error body used by the chat and health endpoints,
// which browser widgets read without an envelope.
type PlainError struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
