package report

import (
	"context"
	"encoding/json"

	"github.com/telavoice/callbridge/pkg/storage"
)

// Archive writes the JSON call record to a blob store (local directory
// or S3), under calls/<day>/<stream SID>.json.
type Archive struct {
	store storage.FileStore
}

// NewArchive creates a blob-store reporter.
func NewArchive(store storage.FileStore) *Archive {
	return &Archive{store: store}
}

func (a *Archive) Report(ctx context.Context, rec *CallRecord) error {
	w, err := a.store.Write(ctx, archivePath(rec))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
