// Package kv provides the key-value store the bridge uses to persist
// call records. Keys are hierarchical string paths (e.g.
// ["call", "MZ18ad..."]) encoded with ':' between segments.
//
// A BadgerDB-backed implementation serves production; an in-memory
// implementation serves tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments in the encoded representation.
// Segments must not contain it.
const Separator = ':'

// Key is a hierarchical path of string segments.
type Key []string

// String returns the encoded form of the key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

// Encode returns the byte representation used for storage.
func (k Key) Encode() []byte {
	return []byte(k.String())
}

// DecodeKey parses an encoded key back into segments.
func DecodeKey(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates over entries whose key starts with the given prefix
	// segments, in lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases resources held by the store.
	Close() error
}

// listPrefix returns the encoded bytes for a prefix scan. A trailing
// separator keeps ["a","b"] from matching ["a","bc"].
func listPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(prefix.Encode(), Separator)
}
