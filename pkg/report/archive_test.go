package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/telavoice/callbridge/pkg/storage"
)

func TestArchiveReport(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	archive := NewArchive(local)

	ended := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	rec := &CallRecord{
		StreamSID: "MZarch1",
		StartedAt: ended.Add(-2 * time.Minute),
		EndedAt:   ended,
		Transcript: []Entry{
			{Role: RoleCaller, Text: "My basement is flooding"},
		},
	}
	if err := archive.Report(context.Background(), rec); err != nil {
		t.Fatalf("Report: %v", err)
	}

	path := filepath.Join(dir, "calls", "2026-03-14", "MZarch1.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("archive file not written: %v", err)
	}
	var got CallRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("archive not valid JSON: %v", err)
	}
	if got.StreamSID != "MZarch1" || len(got.Transcript) != 1 {
		t.Errorf("archived record = %+v", got)
	}
}

func TestArchivePath(t *testing.T) {
	t.Run("partitioned by end day", func(t *testing.T) {
		rec := &CallRecord{
			StreamSID: "MZp",
			EndedAt:   time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC),
		}
		if got := archivePath(rec); got != "calls/2026-01-02/MZp.json" {
			t.Errorf("archivePath = %q", got)
		}
	})

	t.Run("zero end time falls back to today", func(t *testing.T) {
		rec := &CallRecord{StreamSID: "MZq"}
		want := fmt.Sprintf("calls/%s/MZq.json", time.Now().UTC().Format("2006-01-02"))
		if got := archivePath(rec); got != want {
			t.Errorf("archivePath = %q, want %q", got, want)
		}
	})
}
