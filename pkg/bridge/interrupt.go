package bridge

import (
	"log/slog"

	"github.com/telavoice/callbridge/pkg/realtime"
	"github.com/telavoice/callbridge/pkg/twilio"
)

// onAssistantAudio relays one model audio delta to the caller. The
// first delta of an utterance anchors the playback clock; every relayed
// chunk is followed by a checkpoint mark so the relay can learn how far
// playback has progressed.
func (s *Session) onAssistantAudio(ev *realtime.ServerEvent) {
	if ev.Delta == "" {
		slog.Warn("ignoring audio delta without payload", "stream_sid", s.streamSID)
		return
	}
	if s.streamSID == "" {
		// No stream yet; nowhere to play this.
		return
	}

	raw, err := twilio.DecodePayload(ev.Delta)
	if err != nil {
		slog.Debug("dropping malformed assistant frame", "stream_sid", s.streamSID, "error", err)
		return
	}

	if err := s.twilio.WriteJSON(twilio.NewMediaMessage(s.streamSID, twilio.EncodePayload(raw))); err != nil {
		slog.Warn("assistant audio write failed", "stream_sid", s.streamSID, "error", err)
		return
	}

	s.clock.MarkUtteranceStart(ev.ItemID)

	token := s.marks.Enqueue()
	if err := s.twilio.WriteJSON(twilio.NewMarkMessage(s.streamSID, token)); err != nil {
		slog.Warn("checkpoint write failed", "stream_sid", s.streamSID, "error", err)
	}
}

// onUtteranceDone handles a clean end of the assistant utterance: the
// playback clock resets and pending checkpoints drain naturally via
// acknowledgments.
func (s *Session) onUtteranceDone() {
	if !s.clock.Speaking() {
		return
	}
	slog.Debug("utterance completed", "stream_sid", s.streamSID, "utterance", s.clock.UtteranceID())
	s.clock.Reset()
}

// onBargeIn cuts the assistant off when the model-side VAD reports the
// caller started speaking over playback. The flush is coarse-grained:
// Twilio's clear primitive discards queued-but-unplayed audio
// immediately, and new caller audio supersedes the old turn in the
// model's context. No sample-accurate truncate is sent to the model
// leg.
func (s *Session) onBargeIn() {
	if !s.clock.Speaking() {
		// Nothing to interrupt.
		return
	}

	slog.Info("barge-in: interrupting assistant",
		"stream_sid", s.streamSID,
		"utterance", s.clock.UtteranceID(),
		"elapsed_ms", s.clock.ElapsedPlaybackMS(),
		"pending_marks", s.marks.Len(),
	)

	if err := s.twilio.WriteJSON(twilio.NewClearMessage(s.streamSID)); err != nil {
		slog.Warn("playback flush failed", "stream_sid", s.streamSID, "error", err)
	}
	s.marks.Clear()
	s.clock.Reset()
}
