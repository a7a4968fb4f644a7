package model

// Event type discriminators carried in the "type" field of every SSE
// payload emitted on the chat stream.
const (
	EventTypeMeta  = "meta"
	EventTypeToken = "token"
	EventTypeDone  = "done"
	EventTypeError = "error"
)

// MetaEvent carries the classification outcome for the in-flight response.
// It is emitted exactly once, before any token event.
type MetaEvent struct {
	Type       string  `json:"type"`
	Mood       Mood    `json:"mood"`
	Mode       Mode    `json:"mode"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// TokenEvent relays one incremental text fragment in arrival order.
type TokenEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DoneEvent signals normal end-of-generation.
type DoneEvent struct {
	Type string `json:"type"`
}

// ErrorEvent signals a mid-stream failure. The stream is still closed
// cleanly after it is sent.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
