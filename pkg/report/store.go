package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/telavoice/callbridge/pkg/kv"
)

// Store persists call records to a key-value store, keyed by
// ["call", <stream SID>]. Records are stored as JSON.
type Store struct {
	kv kv.Store
}

// NewStore creates a kv-backed reporter.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) Report(ctx context.Context, rec *CallRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("report: marshal record: %w", err)
	}
	return s.kv.Set(ctx, kv.Key{"call", rec.StreamSID}, data)
}

// Load retrieves a previously stored record.
func (s *Store) Load(ctx context.Context, streamSID string) (*CallRecord, error) {
	data, err := s.kv.Get(ctx, kv.Key{"call", streamSID})
	if err != nil {
		return nil, err
	}
	var rec CallRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("report: unmarshal record: %w", err)
	}
	return &rec, nil
}

// List iterates over all stored records in key order.
func (s *Store) List(ctx context.Context) ([]*CallRecord, error) {
	var recs []*CallRecord
	for entry, err := range s.kv.List(ctx, kv.Key{"call"}) {
		if err != nil {
			return nil, err
		}
		var rec CallRecord
		if err := json.Unmarshal(entry.Value, &rec); err != nil {
			return nil, fmt.Errorf("report: unmarshal record %s: %w", entry.Key, err)
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

// archivePath builds the blob path for a record, partitioned by day so
// downstream jobs can consume archives incrementally.
func archivePath(rec *CallRecord) string {
	day := rec.EndedAt.UTC().Format("2006-01-02")
	if rec.EndedAt.IsZero() {
		day = time.Now().UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("calls/%s/%s.json", day, rec.StreamSID)
}
