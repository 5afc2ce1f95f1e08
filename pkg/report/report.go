// Package report assembles and delivers finalized call records.
//
// The bridge hands a CallRecord to a Reporter once the telephony leg
// disconnects. Delivery is fire-and-forget: a failing sink is logged and
// never blocks call teardown.
package report

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Roles for transcript entries.
const (
	RoleCaller    = "caller"
	RoleAssistant = "assistant"
)

// Entry is one transcribed utterance.
type Entry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ToolOutcome records one resolved tool call.
type ToolOutcome struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Output    string `json:"output"`
	Failed    bool   `json:"failed"`
}

// CallRecord is the finalized state of one call.
type CallRecord struct {
	StreamSID string    `json:"stream_sid"`
	CallSID   string    `json:"call_sid,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Transcript   []Entry       `json:"transcript,omitempty"`
	ToolOutcomes []ToolOutcome `json:"tool_outcomes,omitempty"`

	// Incident fields, populated from location searches and caller
	// confirmations during the call.
	LocationQuery     string   `json:"location_query,omitempty"`
	FoundLocations    []string `json:"found_locations,omitempty"`
	ConfirmedLocation string   `json:"confirmed_location,omitempty"`

	// Summary is an optional model-generated incident summary.
	Summary string `json:"summary,omitempty"`
}

// AddUtterance appends a transcript entry. For caller utterances it also
// checks whether the caller named one of the candidate locations from an
// earlier ambiguous search, confirming it on a match.
func (r *CallRecord) AddUtterance(role, text string, at time.Time) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.Transcript = append(r.Transcript, Entry{Role: role, Text: text, At: at})

	if role != RoleCaller || r.ConfirmedLocation != "" || len(r.FoundLocations) < 2 {
		return
	}
	lower := strings.ToLower(text)
	for _, loc := range r.FoundLocations {
		// Match on the street-level part before the first comma.
		head, _, _ := strings.Cut(loc, ",")
		if head != "" && strings.Contains(lower, strings.ToLower(head)) {
			r.ConfirmedLocation = loc
			return
		}
	}
}

// NoteLocationSearch records a location search and its candidates. A
// single candidate is treated as confirmed.
func (r *CallRecord) NoteLocationSearch(query string, found []string) {
	r.LocationQuery = query
	r.FoundLocations = found
	if len(found) == 1 {
		r.ConfirmedLocation = found[0]
	}
}

// HasIncident reports whether the call captured any incident data worth
// reporting.
func (r *CallRecord) HasIncident() bool {
	return r.LocationQuery != "" || len(r.Transcript) > 0
}

// Reporter accepts one finalized call record per completed session.
type Reporter interface {
	Report(ctx context.Context, rec *CallRecord) error
}

// Multi fans a record out to several sinks. Each sink is best-effort;
// failures are logged and the remaining sinks still run.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, rec *CallRecord) error {
	for _, r := range m {
		if err := r.Report(ctx, rec); err != nil {
			slog.Error("report sink failed", "stream_sid", rec.StreamSID, "error", err)
		}
	}
	return nil
}

// Log writes a human-readable call summary to the process log.
type Log struct{}

func (Log) Report(_ context.Context, rec *CallRecord) error {
	confirmed := rec.ConfirmedLocation
	if confirmed == "" {
		confirmed = "not confirmed during the call"
	}
	slog.Info("call summary",
		"stream_sid", rec.StreamSID,
		"call_sid", rec.CallSID,
		"duration", rec.EndedAt.Sub(rec.StartedAt).Round(time.Second),
		"location_query", rec.LocationQuery,
		"confirmed_location", confirmed,
		"utterances", len(rec.Transcript),
		"tool_calls", len(rec.ToolOutcomes),
		"summary", rec.Summary,
	)
	return nil
}
