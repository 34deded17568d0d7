package terminal

import (
	"fmt"
)

// Response is the envelope every service call answers with.
type Response struct {
	Success   bool     `json:"success"`
	PaperMode *bool    `json:"paper_mode,omitempty"`
	Live      bool     `json:"live,omitempty"`
	Data      any      `json:"data,omitempty"`
	Summary   any      `json:"summary,omitempty"`
	OrderID   string   `json:"order_id,omitempty"`
	Status    string   `json:"status,omitempty"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
	Details   []string `json:"details,omitempty"`
}

// respond builds a mode-tagged success envelope.
func (s *Service) respond(data any) Response {
	mode := s.paperMode
	return Response{Success: true, PaperMode: &mode, Data: data}
}

// respondLive builds a success envelope for the always-live family.
func respondLive(data any) Response {
	return Response{Success: true, Live: true, Data: data}
}

// failf builds a failure envelope. Callers keep their prior state on
// failure; the envelope carries no data.
func failf(format string, args ...any) Response {
	return Response{Success: false, Error: fmt.Sprintf(format, args...)}
}
