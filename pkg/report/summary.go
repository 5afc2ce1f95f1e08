package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const summarySystemPrompt = "You summarize emergency call transcripts for dispatch records. " +
	"In at most three sentences, state who called, the confirmed location, and the nature of the problem. " +
	"If any of those are unknown, say so. Do not invent information."

// Summarizer produces a short incident summary from a call transcript
// with a separate chat-completion call.
type Summarizer struct {
	client openai.Client
	model  string
}

// NewSummarizer creates a Summarizer. Model defaults to gpt-4o-mini.
func NewSummarizer(apiKey, model string, opts ...option.RequestOption) *Summarizer {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Summarizer{client: openai.NewClient(opts...), model: model}
}

// Summarize returns an incident summary for the record, or an error if
// the completion call fails.
func (s *Summarizer) Summarize(ctx context.Context, rec *CallRecord) (string, error) {
	if len(rec.Transcript) == 0 {
		return "", fmt.Errorf("report: nothing to summarize")
	}

	var b strings.Builder
	if rec.ConfirmedLocation != "" {
		fmt.Fprintf(&b, "Confirmed location: %s\n", rec.ConfirmedLocation)
	} else if rec.LocationQuery != "" {
		fmt.Fprintf(&b, "Location query (unconfirmed): %s\n", rec.LocationQuery)
	}
	b.WriteString("Transcript:\n")
	for _, e := range rec.Transcript {
		fmt.Fprintf(&b, "%s: %s\n", e.Role, e.Text)
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(b.String()),
		},
		MaxTokens: openai.Int(200),
	})
	if err != nil {
		return "", fmt.Errorf("report: summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("report: summarize: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Summarized wraps a Reporter, attaching a model-generated summary to
// each record before delivery. Summarization failures are logged and the
// record is delivered without a summary.
type Summarized struct {
	Summarizer *Summarizer
	Next       Reporter
}

func (s *Summarized) Report(ctx context.Context, rec *CallRecord) error {
	if s.Summarizer != nil && len(rec.Transcript) > 0 {
		summary, err := s.Summarizer.Summarize(ctx, rec)
		if err != nil {
			slog.Warn("call summary generation failed", "stream_sid", rec.StreamSID, "error", err)
		} else {
			rec.Summary = summary
		}
	}
	return s.Next.Report(ctx, rec)
}
