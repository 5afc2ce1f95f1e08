package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/telavoice/callbridge/pkg/kv"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())

	rec := &CallRecord{
		StreamSID: "MZtest1",
		CallSID:   "CAtest1",
		StartedAt: time.Now().Add(-time.Minute).Truncate(time.Second),
		EndedAt:   time.Now().Truncate(time.Second),
		Transcript: []Entry{
			{Role: RoleAssistant, Text: "911, what is your emergency?"},
			{Role: RoleCaller, Text: "There's a fire"},
		},
		LocationQuery:     "123 main st",
		ConfirmedLocation: "123 Main St, Springfield, IL, USA",
	}
	if err := store.Report(ctx, rec); err != nil {
		t.Fatalf("Report: %v", err)
	}

	got, err := store.Load(ctx, "MZtest1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CallSID != rec.CallSID || got.ConfirmedLocation != rec.ConfirmedLocation {
		t.Errorf("loaded record = %+v", got)
	}
	if len(got.Transcript) != 2 {
		t.Errorf("transcript entries = %d, want 2", len(got.Transcript))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(kv.NewMemory())
	if _, err := store.Load(context.Background(), "MZnope"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want kv.ErrNotFound", err)
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory())

	for _, sid := range []string{"MZb", "MZa", "MZc"} {
		if err := store.Report(ctx, &CallRecord{StreamSID: sid}); err != nil {
			t.Fatalf("Report(%s): %v", sid, err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List returned %d records, want 3", len(recs))
	}
	// Key order.
	for i, want := range []string{"MZa", "MZb", "MZc"} {
		if recs[i].StreamSID != want {
			t.Errorf("recs[%d] = %q, want %q", i, recs[i].StreamSID, want)
		}
	}
}
