package bridge

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/telavoice/callbridge/pkg/twilio"
)

// DefaultGreeting is spoken by Twilio while the media stream is being
// connected.
const DefaultGreeting = "Please wait while we connect your call to the emergency assistant."

// Handler exposes the bridge over HTTP: the incoming-call webhook that
// returns TwiML, and the media-stream websocket endpoint that runs one
// Session per call.
type Handler struct {
	cfg      *Config
	greeting string
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. An empty greeting selects
// DefaultGreeting.
func NewHandler(cfg *Config, greeting string) *Handler {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &Handler{
		cfg:      cfg,
		greeting: greeting,
		upgrader: websocket.Upgrader{
			// Twilio does not send an Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeIncomingCall answers the Twilio voice webhook with TwiML that
// connects the call to the media stream endpoint on the same host.
func (h *Handler) ServeIncomingCall(w http.ResponseWriter, r *http.Request) {
	body, err := twilio.ConnectStreamTwiML(r.Host, h.greeting)
	if err != nil {
		slog.Error("twiml render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("incoming call", "host", r.Host)
	w.Header().Set("Content-Type", "text/xml")
	w.Write(body)
}

// ServeMediaStream upgrades the request to a websocket and relays the
// call until it ends. Each connection gets an isolated Session.
func (h *Handler) ServeMediaStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("media stream upgrade failed", "error", err)
		return
	}
	slog.Info("media stream connection accepted", "remote", r.RemoteAddr)

	session := NewSession(h.cfg, conn)
	if err := session.Run(r.Context()); err != nil {
		slog.Error("session ended with error", "error", err)
	}
}
