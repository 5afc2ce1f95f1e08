package realtime

import "github.com/google/jsonschema-go/jsonschema"

// Audio formats supported by the Realtime API.
const (
	// AudioFormatPCM16 is 16-bit PCM at 24kHz, mono, little-endian.
	AudioFormatPCM16 = "pcm16"
	// AudioFormatG711ULaw is G.711 µ-law at 8kHz, the telephony format.
	AudioFormatG711ULaw = "g711_ulaw"
	// AudioFormatG711ALaw is G.711 A-law at 8kHz.
	AudioFormatG711ALaw = "g711_alaw"
)

// Voice options for audio output.
const (
	VoiceAlloy   = "alloy"
	VoiceAsh     = "ash"
	VoiceBallad  = "ballad"
	VoiceCoral   = "coral"
	VoiceEcho    = "echo"
	VoiceSage    = "sage"
	VoiceShimmer = "shimmer"
	VoiceVerse   = "verse"
)

// Turn detection modes.
const (
	VADServerVAD   = "server_vad"
	VADSemanticVAD = "semantic_vad"
)

// Modalities.
const (
	ModalityText  = "text"
	ModalityAudio = "audio"
)

// Tool choice options.
const (
	ToolChoiceAuto     = "auto"
	ToolChoiceNone     = "none"
	ToolChoiceRequired = "required"
)

// SessionConfig is the behavioral configuration sent in session.update.
type SessionConfig struct {
	// Modalities selects the output modalities. Default: ["text", "audio"].
	Modalities []string `json:"modalities,omitempty"`

	// Instructions is the system prompt.
	Instructions string `json:"instructions,omitempty"`

	// Voice selects the audio output voice.
	Voice string `json:"voice,omitempty"`

	// InputAudioFormat and OutputAudioFormat select the audio encodings.
	// Default: pcm16.
	InputAudioFormat  string `json:"input_audio_format,omitempty"`
	OutputAudioFormat string `json:"output_audio_format,omitempty"`

	// InputAudioTranscription enables transcription of caller audio.
	InputAudioTranscription *TranscriptionConfig `json:"input_audio_transcription,omitempty"`

	// TurnDetection configures server-side voice activity detection.
	TurnDetection *TurnDetection `json:"turn_detection,omitempty"`

	// Tools is the function catalog offered to the model.
	Tools []Tool `json:"tools,omitempty"`

	// ToolChoice is "auto", "none", "required", or a function selector
	// object.
	ToolChoice any `json:"tool_choice,omitempty"`

	// Temperature controls sampling randomness (0.6-1.2).
	Temperature *float64 `json:"temperature,omitempty"`
}

// TranscriptionConfig configures input audio transcription.
type TranscriptionConfig struct {
	// Model is the transcription model. Default: whisper-1.
	Model string `json:"model,omitempty"`
}

// TurnDetection configures voice activity detection.
type TurnDetection struct {
	// Type is "server_vad" or "semantic_vad".
	Type string `json:"type,omitempty"`

	// Threshold is the VAD sensitivity (0.0-1.0). Default: 0.5.
	Threshold float64 `json:"threshold,omitempty"`

	// PrefixPaddingMs is audio included before detected speech start.
	PrefixPaddingMs int `json:"prefix_padding_ms,omitempty"`

	// SilenceDurationMs is the silence needed to end a turn.
	SilenceDurationMs int `json:"silence_duration_ms,omitempty"`
}

// Tool declares a function the model may call. Parameters is a JSON
// Schema describing the argument object.
type Tool struct {
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// SessionResource is the session state echoed by the server in
// session.created and session.updated events.
type SessionResource struct {
	ID                string   `json:"id,omitempty"`
	Model             string   `json:"model,omitempty"`
	Modalities        []string `json:"modalities,omitempty"`
	Voice             string   `json:"voice,omitempty"`
	InputAudioFormat  string   `json:"input_audio_format,omitempty"`
	OutputAudioFormat string   `json:"output_audio_format,omitempty"`
	ExpiresAt         int64    `json:"expires_at,omitempty"`
}

// ConversationItem is an item in the model's conversation: a message,
// a function call, or a function call output.
type ConversationItem struct {
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type,omitempty"`
	Status    string        `json:"status,omitempty"`
	Role      string        `json:"role,omitempty"`
	Content   []ContentPart `json:"content,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Output    string        `json:"output,omitempty"`
}

// ContentPart is one part of a message item's content.
type ContentPart struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// ResponseResource is the completed response carried by response.done.
type ResponseResource struct {
	ID     string             `json:"id,omitempty"`
	Status string             `json:"status,omitempty"`
	Output []ConversationItem `json:"output,omitempty"`
}

// FunctionCalls extracts the function_call items from the response
// output, in order.
func (r *ResponseResource) FunctionCalls() []ConversationItem {
	if r == nil {
		return nil
	}
	var calls []ConversationItem
	for _, item := range r.Output {
		if item.Type == "function_call" && item.Name != "" && item.CallID != "" {
			calls = append(calls, item)
		}
	}
	return calls
}
