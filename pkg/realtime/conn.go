package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is the model-leg surface the bridge depends on. *Conn is the
// production implementation; tests substitute in-memory fakes.
type Session interface {
	// UpdateSession sends the behavioral configuration. Call after the
	// session.created event.
	UpdateSession(config *SessionConfig) error

	// AppendAudioBase64 appends base64-encoded audio in the session's
	// input format to the input audio buffer.
	AppendAudioBase64(audio string) error

	// AddUserMessage adds a user text item to the conversation.
	AddUserMessage(text string) error

	// AddFunctionCallOutput delivers a tool result tagged with the
	// originating call id.
	AddFunctionCallOutput(callID, output string) error

	// CreateResponse asks the model to generate the next response.
	CreateResponse() error

	// CancelResponse cancels in-flight response generation.
	CancelResponse() error

	// Events iterates over server events until close or error. After an
	// error is yielded, iteration stops.
	Events() iter.Seq2[*ServerEvent, error]

	// SessionID returns the server-assigned session id, or "" before
	// session.created arrives.
	SessionID() string

	// Close tears down the connection.
	Close() error
}

// Conn is a live websocket session with the Realtime API.
type Conn struct {
	ws        *websocket.Conn
	closeCh   chan struct{}
	eventsCh  chan eventOrError
	closeOnce sync.Once

	mu        sync.Mutex
	sessionID string
}

type eventOrError struct {
	event *ServerEvent
	err   error
}

func newEventID() string {
	return "evt_" + uuid.New().String()[:12]
}

// UpdateSession sends a session.update event.
func (c *Conn) UpdateSession(config *SessionConfig) error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeSessionUpdate,
		"session":  config,
	})
}

// AppendAudioBase64 appends base64 audio to the input buffer.
func (c *Conn) AppendAudioBase64(audio string) error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeInputAudioBufferAppend,
		"audio":    audio,
	})
}

// AddUserMessage adds a user text item to the conversation.
func (c *Conn) AddUserMessage(text string) error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeConversationItemCreate,
		"item": map[string]any{
			"type": "message",
			"role": "user",
			"content": []map[string]any{
				{"type": "input_text", "text": text},
			},
		},
	})
}

// AddFunctionCallOutput delivers a tool result to the conversation.
func (c *Conn) AddFunctionCallOutput(callID, output string) error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeConversationItemCreate,
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": callID,
			"output":  output,
		},
	})
}

// CreateResponse requests the next model response.
func (c *Conn) CreateResponse() error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeResponseCreate,
	})
}

// CancelResponse cancels in-flight response generation.
func (c *Conn) CancelResponse() error {
	return c.send(map[string]any{
		"event_id": newEventID(),
		"type":     EventTypeResponseCancel,
	})
}

// Events returns an iterator over server events.
func (c *Conn) Events() iter.Seq2[*ServerEvent, error] {
	return func(yield func(*ServerEvent, error) bool) {
		for {
			select {
			case <-c.closeCh:
				return
			case item, ok := <-c.eventsCh:
				if !ok {
					return
				}
				if !yield(item.event, item.err) {
					return
				}
				if item.err != nil {
					return
				}
			}
		}
	}
}

// SessionID returns the server-assigned session id.
func (c *Conn) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Close closes the websocket. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) send(event map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		if raw, err := json.Marshal(event); err == nil {
			s := string(raw)
			if len(s) > 500 {
				s = s[:500] + "..."
			}
			slog.Debug("realtime send", "event", s)
		}
	}

	return c.ws.WriteJSON(event)
}

// readLoop pumps server messages into the events channel until the
// connection closes or a read fails.
func (c *Conn) readLoop() {
	defer close(c.eventsCh)

	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		_, message, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closeCh:
			case c.eventsCh <- eventOrError{err: fmt.Errorf("realtime: read: %w", err)}:
			}
			return
		}

		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			s := string(message)
			if len(s) > 1000 {
				s = s[:1000] + "..."
			}
			slog.Debug("realtime recv", "len", len(message), "event", s)
		}

		event := &ServerEvent{}
		if err := json.Unmarshal(message, event); err != nil {
			select {
			case <-c.closeCh:
				return
			case c.eventsCh <- eventOrError{err: fmt.Errorf("realtime: parse: %w", err)}:
			}
			continue
		}
		event.Raw = message

		if event.Type == EventTypeSessionCreated && event.Session != nil {
			c.mu.Lock()
			c.sessionID = event.Session.ID
			c.mu.Unlock()
		}

		select {
		case <-c.closeCh:
			return
		case c.eventsCh <- eventOrError{event: event}:
		}
	}
}

var _ Session = (*Conn)(nil)
