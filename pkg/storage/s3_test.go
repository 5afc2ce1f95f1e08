package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// fakeS3 keeps objects in a map, keyed by bucket-local object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

type notFoundErr struct{ code string }

func (e *notFoundErr) Error() string                 { return e.code }
func (e *notFoundErr) ErrorCode() string             { return e.code }
func (e *notFoundErr) ErrorMessage() string          { return e.code }
func (e *notFoundErr) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var _ smithy.APIError = (*notFoundErr)(nil)

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &notFoundErr{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*params.Key] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *params.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*params.Key]; !ok {
		return nil, &notFoundErr{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	store := NewS3(api, "records", "archives")

	t.Run("write streams to the prefixed key", func(t *testing.T) {
		w, err := store.Write(ctx, "calls/2026-01-02/MZ1.json")
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if _, err := w.Write([]byte(`{"ok":`)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := w.Write([]byte(`true}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		api.mu.Lock()
		data, ok := api.objects["archives/calls/2026-01-02/MZ1.json"]
		api.mu.Unlock()
		if !ok {
			t.Fatal("object not stored under prefixed key")
		}
		if string(data) != `{"ok":true}` {
			t.Errorf("object = %q", data)
		}
	})

	t.Run("read", func(t *testing.T) {
		r, err := store.Read(ctx, "calls/2026-01-02/MZ1.json")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		defer r.Close()
		data, _ := io.ReadAll(r)
		if string(data) != `{"ok":true}` {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("read missing maps to ErrNotExist", func(t *testing.T) {
		if _, err := store.Read(ctx, "calls/none.json"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Read(missing) = %v, want ErrNotExist", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "calls/2026-01-02/MZ1.json")
		if err != nil || !ok {
			t.Errorf("Exists(present) = %v, %v", ok, err)
		}
		ok, err = store.Exists(ctx, "calls/none.json")
		if err != nil || ok {
			t.Errorf("Exists(missing) = %v, %v", ok, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "calls/2026-01-02/MZ1.json"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		ok, _ := store.Exists(ctx, "calls/2026-01-02/MZ1.json")
		if ok {
			t.Error("object still exists after Delete")
		}
	})

	t.Run("no prefix uses the bare path", func(t *testing.T) {
		bare := NewS3(api, "records", "")
		w, err := bare.Write(ctx, "x.json")
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		w.Write([]byte("{}"))
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		api.mu.Lock()
		_, ok := api.objects["x.json"]
		api.mu.Unlock()
		if !ok {
			t.Error("object not stored under bare key")
		}
	})
}
