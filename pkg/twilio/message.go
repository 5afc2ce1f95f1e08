package twilio

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Event types carried in the "event" field of a media stream message.
const (
	// Inbound (Twilio -> bridge).
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventMark      = "mark"
	EventStop      = "stop"

	// Outbound (bridge -> Twilio). EventMedia and EventMark are used in
	// both directions.
	EventClear = "clear"
)

// Message is a single media stream websocket message. Exactly one of the
// event-specific payload fields is set, matching the Event field.
type Message struct {
	Event          string      `json:"event"`
	SequenceNumber string      `json:"sequenceNumber,omitempty"`
	StreamSID      string      `json:"streamSid,omitempty"`
	Start          *StartEvent `json:"start,omitempty"`
	Media          *MediaEvent `json:"media,omitempty"`
	Mark           *MarkEvent  `json:"mark,omitempty"`
	Stop           *StopEvent  `json:"stop,omitempty"`
}

// StartEvent describes the stream that is about to carry media.
type StartEvent struct {
	AccountSID       string            `json:"accountSid,omitempty"`
	CallSID          string            `json:"callSid,omitempty"`
	StreamSID        string            `json:"streamSid"`
	Tracks           []string          `json:"tracks,omitempty"`
	MediaFormat      *MediaFormat      `json:"mediaFormat,omitempty"`
	CustomParameters map[string]string `json:"customParameters,omitempty"`
}

// MediaFormat describes the audio encoding of a stream.
type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

// MediaEvent carries one chunk of base64-encoded µ-law audio.
// Twilio serializes the timestamp and chunk counters as strings.
type MediaEvent struct {
	Track     string `json:"track,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   string `json:"payload"`
}

// TimestampMS parses the media timestamp as milliseconds since stream
// start. A missing timestamp parses as zero.
func (m *MediaEvent) TimestampMS() (int64, error) {
	if m.Timestamp == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(m.Timestamp, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("twilio: bad media timestamp %q: %w", m.Timestamp, err)
	}
	return ms, nil
}

// MarkEvent names a playback checkpoint. Outbound marks are echoed back
// by Twilio once all audio sent before the mark has been played.
type MarkEvent struct {
	Name string `json:"name"`
}

// StopEvent signals the end of a stream.
type StopEvent struct {
	AccountSID string `json:"accountSid,omitempty"`
	CallSID    string `json:"callSid,omitempty"`
}

// ParseMessage decodes one websocket text frame into a Message.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if msg.Event == "" {
		return nil, fmt.Errorf("%w: missing event field", ErrProtocol)
	}
	return &msg, nil
}

// NewMediaMessage builds an outbound media message carrying the given
// base64 µ-law payload.
func NewMediaMessage(streamSID, payload string) *Message {
	return &Message{
		Event:     EventMedia,
		StreamSID: streamSID,
		Media:     &MediaEvent{Payload: payload},
	}
}

// NewMarkMessage builds an outbound mark message carrying a checkpoint
// token for later acknowledgment.
func NewMarkMessage(streamSID, name string) *Message {
	return &Message{
		Event:     EventMark,
		StreamSID: streamSID,
		Mark:      &MarkEvent{Name: name},
	}
}

// NewClearMessage builds an outbound clear message that discards any
// buffered, unplayed audio on the Twilio side.
func NewClearMessage(streamSID string) *Message {
	return &Message{
		Event:     EventClear,
		StreamSID: streamSID,
	}
}
