package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAddUtterance(t *testing.T) {
	now := time.Now()

	t.Run("appends trimmed entries", func(t *testing.T) {
		rec := &CallRecord{}
		rec.AddUtterance(RoleAssistant, "  911, what is your emergency?  ", now)
		rec.AddUtterance(RoleCaller, "", now)
		rec.AddUtterance(RoleCaller, "   ", now)
		if len(rec.Transcript) != 1 {
			t.Fatalf("transcript entries = %d, want 1", len(rec.Transcript))
		}
		if rec.Transcript[0].Text != "911, what is your emergency?" {
			t.Errorf("text = %q, want trimmed", rec.Transcript[0].Text)
		}
	})

	t.Run("caller confirms ambiguous location", func(t *testing.T) {
		rec := &CallRecord{}
		rec.NoteLocationSearch("springfield", []string{
			"Main Street, Springfield, IL, USA",
			"Oak Avenue, Springfield, MA, USA",
		})
		if rec.ConfirmedLocation != "" {
			t.Fatalf("ConfirmedLocation = %q before caller answer", rec.ConfirmedLocation)
		}

		rec.AddUtterance(RoleCaller, "It's the one on Oak Avenue", now)
		if rec.ConfirmedLocation != "Oak Avenue, Springfield, MA, USA" {
			t.Errorf("ConfirmedLocation = %q, want the Oak Avenue candidate", rec.ConfirmedLocation)
		}
	})

	t.Run("assistant speech never confirms", func(t *testing.T) {
		rec := &CallRecord{}
		rec.NoteLocationSearch("oak ave", []string{
			"Oak Ave, Denver, CO, USA",
			"Oak Ave, Boulder, CO, USA",
		})
		rec.AddUtterance(RoleAssistant, "Did you mean Oak Ave in Denver or Boulder?", now)
		if rec.ConfirmedLocation != "" {
			t.Errorf("ConfirmedLocation = %q from assistant speech, want empty", rec.ConfirmedLocation)
		}
	})

	t.Run("confirmation is sticky", func(t *testing.T) {
		rec := &CallRecord{}
		rec.NoteLocationSearch("elm", []string{
			"Elm St, Anaheim, CA, USA",
			"Elm St, Fresno, CA, USA",
		})
		rec.AddUtterance(RoleCaller, "Elm St in Anaheim", now)
		rec.AddUtterance(RoleCaller, "wait, Elm St", now)
		if rec.ConfirmedLocation != "Elm St, Anaheim, CA, USA" {
			t.Errorf("ConfirmedLocation = %q, want the first confirmation kept", rec.ConfirmedLocation)
		}
	})
}

func TestNoteLocationSearch(t *testing.T) {
	t.Run("single candidate auto-confirms", func(t *testing.T) {
		rec := &CallRecord{}
		rec.NoteLocationSearch("123 main st", []string{"123 Main St, Springfield, IL, USA"})
		if rec.ConfirmedLocation != "123 Main St, Springfield, IL, USA" {
			t.Errorf("ConfirmedLocation = %q", rec.ConfirmedLocation)
		}
	})

	t.Run("no candidates confirm nothing", func(t *testing.T) {
		rec := &CallRecord{}
		rec.NoteLocationSearch("nowhere", nil)
		if rec.ConfirmedLocation != "" {
			t.Errorf("ConfirmedLocation = %q, want empty", rec.ConfirmedLocation)
		}
		if rec.LocationQuery != "nowhere" {
			t.Errorf("LocationQuery = %q", rec.LocationQuery)
		}
	})
}

func TestHasIncident(t *testing.T) {
	var empty CallRecord
	if empty.HasIncident() {
		t.Error("empty record reports an incident")
	}

	withTranscript := CallRecord{Transcript: []Entry{{Role: RoleCaller, Text: "help"}}}
	if !withTranscript.HasIncident() {
		t.Error("record with transcript reports no incident")
	}

	withQuery := CallRecord{LocationQuery: "main st"}
	if !withQuery.HasIncident() {
		t.Error("record with location query reports no incident")
	}
}

type stubReporter struct {
	calls int
	err   error
}

func (s *stubReporter) Report(context.Context, *CallRecord) error {
	s.calls++
	return s.err
}

func TestMultiKeepsGoing(t *testing.T) {
	failing := &stubReporter{err: errors.New("sink down")}
	healthy := &stubReporter{}
	m := Multi{failing, healthy}

	if err := m.Report(context.Background(), &CallRecord{StreamSID: "MZ1"}); err != nil {
		t.Fatalf("Multi.Report: %v", err)
	}
	if failing.calls != 1 || healthy.calls != 1 {
		t.Errorf("sink calls = %d/%d, want 1/1", failing.calls, healthy.calls)
	}
}
