package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telavoice/callbridge/pkg/realtime"
	"github.com/telavoice/callbridge/pkg/report"
	"github.com/telavoice/callbridge/pkg/tools"
	"github.com/telavoice/callbridge/pkg/twilio"
)

// Errors escalated out of a session. Frame-local failures are contained
// and never surface here.
var (
	// ErrUpstreamUnavailable reports a model-leg handshake or connection
	// failure. It terminates the session.
	ErrUpstreamUnavailable = errors.New("bridge: model leg unavailable")
)

// Status is the lifecycle state of a Session.
type Status int

const (
	// StatusConnecting means the model-leg handshake is in flight.
	StatusConnecting Status = iota
	// StatusActive means both legs are live and the relay is running.
	StatusActive
	// StatusClosing means the telephony leg disconnected and
	// finalization is in progress.
	StatusClosing
	// StatusClosed is terminal.
	StatusClosed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusActive:
		return "active"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultInstructions is the system prompt for the emergency call
// handler persona.
const DefaultInstructions = "You are a calm, professional, and reassuring police emergency call handler. " +
	"Your primary goal is to quickly and accurately gather critical information from the caller. " +
	"First, greet the user with '911, what is your emergency?'. " +
	"Then, obtain the following information in order: the caller's full name, the exact location of the emergency, and a clear description of the problem. " +
	"When the user provides a location, you MUST use the `find_location` tool to verify it. " +
	"If the `find_location` tool returns multiple possible locations, you must list them to the user and ask for clarification. " +
	"If the tool returns a single, confirmed location, state it back to the user and then immediately ask for a description of the problem. " +
	"If the tool returns no locations, inform the user you're having trouble and ask them to spell the street name or provide cross-streets. " +
	"Once you have the name, a confirmed location, and the problem description, reassure the caller that help has been dispatched to their location and to stay on the line if it is safe. " +
	"Do not invent information."

// DefaultOpeningPrompt is the synthetic first turn that makes the
// assistant speak before the caller says anything.
const DefaultOpeningPrompt = "The user has just called. Greet them as instructed."

// DefaultTemperature matches the persona tuning of the prompt above.
const DefaultTemperature = 0.5

// finalizeTimeout bounds reporting and teardown after disconnect.
const finalizeTimeout = 15 * time.Second

// TelephonyConn is the telephony-leg surface a session reads and writes.
// *websocket.Conn satisfies it; tests use in-memory fakes.
type TelephonyConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Config is the per-process session configuration, passed explicitly at
// construction.
type Config struct {
	// Dial opens the model leg for one session.
	Dial func(ctx context.Context) (realtime.Session, error)

	// Catalog is the tool catalog advertised to the model.
	Catalog *tools.Catalog

	// Reporter receives the finalized call record. Optional.
	Reporter report.Reporter

	// Voice, Instructions, OpeningPrompt, and Temperature override the
	// defaults above when non-zero.
	Voice         string
	Instructions  string
	OpeningPrompt string
	Temperature   float64
}

func (c *Config) instructions() string {
	if c.Instructions != "" {
		return c.Instructions
	}
	return DefaultInstructions
}

func (c *Config) openingPrompt() string {
	if c.OpeningPrompt != "" {
		return c.OpeningPrompt
	}
	return DefaultOpeningPrompt
}

func (c *Config) voice() string {
	if c.Voice != "" {
		return c.Voice
	}
	return realtime.VoiceAlloy
}

func (c *Config) temperature() float64 {
	if c.Temperature != 0 {
		return c.Temperature
	}
	return DefaultTemperature
}

// Session owns one phone call's relay state from stream start to
// disconnect. All state is confined to the Run loop's goroutine.
type Session struct {
	cfg    *Config
	twilio TelephonyConn
	model  realtime.Session

	status    Status
	streamSID string
	clock     Clock
	marks     MarkQueue
	pending   map[string]*pendingCall
	turns     map[string]int
	record    *report.CallRecord
	stopping  bool

	ctx         context.Context
	toolResults chan toolResult
	done        chan struct{}
}

// NewSession creates a session for one telephony connection. Run drives
// it to completion.
func NewSession(cfg *Config, conn TelephonyConn) *Session {
	return &Session{
		cfg:         cfg,
		twilio:      conn,
		status:      StatusConnecting,
		pending:     make(map[string]*pendingCall),
		turns:       make(map[string]int),
		record:      &report.CallRecord{StartedAt: time.Now()},
		toolResults: make(chan toolResult, 8),
		done:        make(chan struct{}),
	}
}

// Status returns the session's lifecycle state. Meaningful from the Run
// goroutine and after Run returns.
func (s *Session) Status() Status {
	return s.status
}

// Run relays the call until the telephony leg disconnects, the model
// leg fails, or ctx is canceled. It always tears down both legs and
// reports the call record (best-effort) before returning.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx

	model, err := s.cfg.Dial(ctx)
	if err != nil {
		s.status = StatusClosed
		s.twilio.Close()
		close(s.done)
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	s.model = model

	if err := s.initModelSession(); err != nil {
		s.status = StatusClosed
		s.model.Close()
		s.twilio.Close()
		close(s.done)
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	s.status = StatusActive

	telephonyCh := make(chan *twilio.Message)
	go s.readTelephony(telephonyCh)

	modelCh := make(chan modelEvent)
	go s.readModel(modelCh)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case msg, ok := <-telephonyCh:
			if !ok {
				// Telephony disconnect: normal end of call.
				break loop
			}
			s.handleTelephony(msg)
			if s.stopping {
				break loop
			}
		case ev, ok := <-modelCh:
			if !ok {
				runErr = ErrUpstreamUnavailable
				break loop
			}
			if ev.err != nil {
				runErr = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ev.err)
				break loop
			}
			s.handleModel(ev.event)
		case res := <-s.toolResults:
			s.handleToolResult(res)
		}
	}

	s.finalize()
	return runErr
}

type modelEvent struct {
	event *realtime.ServerEvent
	err   error
}

// readTelephony pumps parsed telephony messages into ch until the
// connection fails or closes, then closes ch.
func (s *Session) readTelephony(ch chan<- *twilio.Message) {
	defer close(ch)
	for {
		_, data, err := s.twilio.ReadMessage()
		if err != nil {
			return
		}
		msg, err := twilio.ParseMessage(data)
		if err != nil {
			slog.Warn("ignoring malformed telephony message", "stream_sid", s.streamSID, "error", err)
			continue
		}
		select {
		case ch <- msg:
		case <-s.done:
			return
		}
	}
}

// readModel pumps server events into ch until the model leg closes,
// then closes ch.
func (s *Session) readModel(ch chan<- modelEvent) {
	defer close(ch)
	for event, err := range s.model.Events() {
		select {
		case ch <- modelEvent{event: event, err: err}:
		case <-s.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// initModelSession sends the behavioral configuration and the synthetic
// opening turn so the assistant speaks first.
func (s *Session) initModelSession() error {
	temp := s.cfg.temperature()
	config := &realtime.SessionConfig{
		Modalities:        []string{realtime.ModalityText, realtime.ModalityAudio},
		Instructions:      s.cfg.instructions(),
		Voice:             s.cfg.voice(),
		InputAudioFormat:  realtime.AudioFormatG711ULaw,
		OutputAudioFormat: realtime.AudioFormatG711ULaw,
		InputAudioTranscription: &realtime.TranscriptionConfig{
			Model: "whisper-1",
		},
		TurnDetection: &realtime.TurnDetection{Type: realtime.VADServerVAD},
		Tools:         s.toolDeclarations(),
		ToolChoice:    realtime.ToolChoiceAuto,
		Temperature:   &temp,
	}
	if err := s.model.UpdateSession(config); err != nil {
		return err
	}
	if err := s.model.AddUserMessage(s.cfg.openingPrompt()); err != nil {
		return err
	}
	return s.model.CreateResponse()
}

// handleTelephony processes one telephony-leg event.
func (s *Session) handleTelephony(msg *twilio.Message) {
	switch msg.Event {
	case twilio.EventConnected:
		slog.Debug("telephony leg connected")
	case twilio.EventStart:
		if msg.Start == nil {
			slog.Warn("ignoring start event without payload")
			return
		}
		s.onStreamStart(msg)
	case twilio.EventMedia:
		if msg.Media == nil {
			slog.Warn("ignoring media event without payload", "stream_sid", s.streamSID)
			return
		}
		s.onCallerMedia(msg.Media)
	case twilio.EventMark:
		token, ok := s.marks.Acknowledge()
		if ok {
			slog.Debug("checkpoint acknowledged", "stream_sid", s.streamSID, "token", token, "pending", s.marks.Len())
		}
	case twilio.EventStop:
		slog.Info("telephony stream stopped", "stream_sid", s.streamSID)
		s.stopping = true
	default:
		slog.Warn("ignoring unknown telephony event", "event", msg.Event)
	}
}

// onStreamStart initializes (or re-initializes) per-stream state. A
// repeated start on the same connection resets everything except the
// connection itself.
func (s *Session) onStreamStart(msg *twilio.Message) {
	sid := msg.Start.StreamSID
	if sid == "" {
		sid = msg.StreamSID
	}
	slog.Info("media stream started", "stream_sid", sid, "call_sid", msg.Start.CallSID)

	s.streamSID = sid
	s.clock = Clock{}
	s.marks.Clear()
	s.pending = make(map[string]*pendingCall)
	s.turns = make(map[string]int)
	s.record = &report.CallRecord{
		StreamSID: sid,
		CallSID:   msg.Start.CallSID,
		StartedAt: time.Now(),
	}
}

// onCallerMedia relays one caller audio frame to the model leg.
func (s *Session) onCallerMedia(media *twilio.MediaEvent) {
	if ms, err := media.TimestampMS(); err != nil {
		slog.Warn("ignoring unparsable media timestamp", "stream_sid", s.streamSID, "error", err)
	} else {
		s.clock.RecordCallerTimestamp(ms)
	}

	raw, err := twilio.DecodePayload(media.Payload)
	if err != nil {
		// Malformed frame: drop it, the call continues.
		slog.Debug("dropping malformed caller frame", "stream_sid", s.streamSID, "error", err)
		return
	}
	if err := s.model.AppendAudioBase64(twilio.EncodePayload(raw)); err != nil {
		slog.Warn("caller audio append failed", "stream_sid", s.streamSID, "error", err)
	}
}

// handleModel processes one model-leg event.
func (s *Session) handleModel(ev *realtime.ServerEvent) {
	switch ev.Type {
	case realtime.EventTypeSessionCreated, realtime.EventTypeSessionUpdated:
		slog.Debug("model session event", "type", ev.Type, "session_id", s.model.SessionID())
	case realtime.EventTypeResponseAudioDelta:
		s.onAssistantAudio(ev)
	case realtime.EventTypeResponseAudioDone:
		s.onUtteranceDone()
	case realtime.EventTypeInputAudioBufferSpeechStarted:
		s.onBargeIn()
	case realtime.EventTypeResponseDone:
		s.onResponseDone(ev)
	case realtime.EventTypeInputTranscriptionDone:
		s.record.AddUtterance(report.RoleCaller, ev.Transcript, time.Now())
	case realtime.EventTypeResponseAudioTranscriptDone:
		s.record.AddUtterance(report.RoleAssistant, ev.Transcript, time.Now())
	case realtime.EventTypeError:
		// Model-side errors are contained; only transport failure ends
		// the session.
		slog.Warn("model error event", "stream_sid", s.streamSID, "error", ev.Err)
	default:
		slog.Debug("unhandled model event", "type", ev.Type)
	}
}

// finalize reports the call record and tears down both legs.
func (s *Session) finalize() {
	s.status = StatusClosing
	close(s.done)

	if n := len(s.pending); n > 0 {
		// Results for these calls are discarded; no frame is sent to a
		// closed session.
		slog.Info("discarding unresolved tool calls", "stream_sid", s.streamSID, "count", n)
	}

	s.record.EndedAt = time.Now()
	if s.cfg.Reporter != nil && s.record.HasIncident() {
		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		if err := s.cfg.Reporter.Report(ctx, s.record); err != nil {
			slog.Error("call record delivery failed", "stream_sid", s.streamSID, "error", err)
		}
		cancel()
	}

	if s.model != nil {
		s.model.Close()
	}
	s.twilio.Close()
	s.status = StatusClosed
	slog.Info("session closed", "stream_sid", s.streamSID)
}
