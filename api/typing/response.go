package typing

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every API reply.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}
