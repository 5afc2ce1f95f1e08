package kv

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestKeyEncoding(t *testing.T) {
	k := Key{"call", "MZ123"}
	if got := k.String(); got != "call:MZ123" {
		t.Errorf("String() = %q, want call:MZ123", got)
	}
	if got := DecodeKey(k.Encode()); !reflect.DeepEqual(got, k) {
		t.Errorf("DecodeKey(Encode()) = %v, want %v", got, k)
	}
}

// testStore runs the Store contract against any implementation.
func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		if _, err := store.Get(ctx, Key{"call", "nope"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) = %v, want ErrNotFound", err)
		}
	})

	t.Run("set get overwrite", func(t *testing.T) {
		key := Key{"call", "a"}
		if err := store.Set(ctx, key, []byte("one")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Set(ctx, key, []byte("two")); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "two" {
			t.Errorf("Get = %q, want two", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		key := Key{"call", "b"}
		if err := store.Set(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete = %v, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Errorf("Delete(missing) = %v, want nil", err)
		}
	})

	t.Run("list by prefix", func(t *testing.T) {
		for k, v := range map[string]string{
			"call:z2": "v2",
			"call:z1": "v1",
			"other:x": "v3",
		} {
			if err := store.Set(ctx, DecodeKey([]byte(k)), []byte(v)); err != nil {
				t.Fatalf("Set(%s): %v", k, err)
			}
		}

		var got []string
		for entry, err := range store.List(ctx, Key{"call"}) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got = append(got, entry.Key.String())
		}
		// "other:x" excluded, remaining keys in lexicographic order.
		for _, k := range got {
			if k == "other:x" {
				t.Errorf("List(call) yielded %q", k)
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Errorf("List order violated: %q before %q", got[i-1], got[i])
			}
		}
	})

	t.Run("prefix does not match sibling segments", func(t *testing.T) {
		if err := store.Set(ctx, Key{"ca", "x"}, []byte("v")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		for entry, err := range store.List(ctx, Key{"call"}) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if entry.Key[0] != "call" {
				t.Errorf("List(call) yielded %v", entry.Key)
			}
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemoryCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	val := []byte("abc")
	if err := m.Set(ctx, Key{"k"}, val); err != nil {
		t.Fatal(err)
	}
	val[0] = 'X' // caller mutation must not leak in

	got, err := m.Get(ctx, Key{"k"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("stored value = %q, want abc", got)
	}
	got[0] = 'Y' // reader mutation must not leak back
	again, _ := m.Get(ctx, Key{"k"})
	if string(again) != "abc" {
		t.Errorf("value after reader mutation = %q, want abc", again)
	}
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadger("") // in-memory mode
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer store.Close()
	testStore(t, store)
}
