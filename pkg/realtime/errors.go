package realtime

import "fmt"

// Error is an API-level error reported by the Realtime API, either in
// an error event or while establishing the connection.
type Error struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
	EventID string `json:"event_id,omitempty"`

	// HTTPStatus is set for handshake failures.
	HTTPStatus int `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("realtime: %s: %s", e.Code, e.Message)
	case e.Type != "":
		return fmt.Sprintf("realtime: %s: %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("realtime: %s", e.Message)
	}
}
