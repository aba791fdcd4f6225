package http

// Notice kinds shown by clients as a transient status banner.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// NoticeDismissAfterMs is how long clients keep a notice on screen.
const NoticeDismissAfterMs = 3000

// Notice is a short user-facing status message.
type Notice struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	DismissAfterMs int    `json:"dismiss_after_ms"`
}

func newNotice(kind, message string) *Notice {
	return &Notice{Type: kind, Message: message, DismissAfterMs: NoticeDismissAfterMs}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string  `json:"error"`
	Notice *Notice `json:"notice"`
}
