package realtime

// Client event types (bridge -> server).
const (
	EventTypeSessionUpdate = "session.update"

	EventTypeInputAudioBufferAppend = "input_audio_buffer.append"
	EventTypeInputAudioBufferCommit = "input_audio_buffer.commit"
	EventTypeInputAudioBufferClear  = "input_audio_buffer.clear"

	EventTypeConversationItemCreate = "conversation.item.create"

	EventTypeResponseCreate = "response.create"
	EventTypeResponseCancel = "response.cancel"
)

// Server event types (server -> bridge).
const (
	EventTypeError = "error"

	EventTypeSessionCreated = "session.created"
	EventTypeSessionUpdated = "session.updated"

	EventTypeInputAudioBufferCommitted     = "input_audio_buffer.committed"
	EventTypeInputAudioBufferSpeechStarted = "input_audio_buffer.speech_started"
	EventTypeInputAudioBufferSpeechStopped = "input_audio_buffer.speech_stopped"

	EventTypeConversationItemCreated = "conversation.item.created"
	EventTypeInputTranscriptionDone  = "conversation.item.input_audio_transcription.completed"

	EventTypeResponseCreated = "response.created"
	EventTypeResponseDone    = "response.done"

	EventTypeResponseAudioDelta = "response.audio.delta"
	EventTypeResponseAudioDone  = "response.audio.done"

	EventTypeResponseAudioTranscriptDelta = "response.audio_transcript.delta"
	EventTypeResponseAudioTranscriptDone  = "response.audio_transcript.done"

	EventTypeRateLimitsUpdated = "rate_limits.updated"
)

// ServerEvent is one event received from the Realtime API. Fields are
// populated depending on Type; unused fields are zero.
type ServerEvent struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`

	// Session is set for session.created and session.updated.
	Session *SessionResource `json:"session,omitempty"`

	// Item is set for conversation.item.* events.
	Item *ConversationItem `json:"item,omitempty"`

	// ItemID identifies the conversation item for audio and speech
	// events. For response.audio.delta it is the assistant utterance id.
	ItemID string `json:"item_id,omitempty"`

	// AudioStartMs and AudioEndMs bound detected caller speech.
	AudioStartMs int `json:"audio_start_ms,omitempty"`
	AudioEndMs   int `json:"audio_end_ms,omitempty"`

	// Transcript is set for transcription events.
	Transcript string `json:"transcript,omitempty"`

	// Response is set for response.created and response.done.
	Response *ResponseResource `json:"response,omitempty"`

	// Delta carries incremental payloads. For response.audio.delta it is
	// base64-encoded audio in the session's output format.
	Delta string `json:"delta,omitempty"`

	// Err is set for error events.
	Err *Error `json:"error,omitempty"`

	// Raw is the original JSON message.
	Raw []byte `json:"-"`
}
