package types

// Status is the envelope outcome reported by the server.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Pagination accompanies list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the wire shape returned by every API call. Data is
// ciphertext that only opens with the device key and Handshake.
type Envelope struct {
	Status     Status      `json:"status"`
	Data       string      `json:"data,omitempty"`
	Handshake  string      `json:"handshake,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
