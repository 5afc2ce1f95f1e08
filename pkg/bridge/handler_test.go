package bridge

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServeIncomingCall(t *testing.T) {
	t.Run("default greeting", func(t *testing.T) {
		h := NewHandler(&Config{}, "")
		req := httptest.NewRequest("POST", "https://bridge.example.com/incoming-call", nil)
		rec := httptest.NewRecorder()

		h.ServeIncomingCall(rec, req)

		resp := rec.Result()
		if resp.StatusCode != 200 {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/xml" {
			t.Errorf("Content-Type = %q, want text/xml", ct)
		}
		body, _ := io.ReadAll(resp.Body)
		doc := string(body)
		if !strings.Contains(doc, DefaultGreeting) {
			t.Errorf("body missing default greeting: %s", doc)
		}
		if !strings.Contains(doc, "wss://bridge.example.com/media-stream") {
			t.Errorf("body missing stream endpoint: %s", doc)
		}
	})

	t.Run("custom greeting", func(t *testing.T) {
		h := NewHandler(&Config{}, "One moment please.")
		req := httptest.NewRequest("POST", "https://voice.example.org/incoming-call", nil)
		rec := httptest.NewRecorder()

		h.ServeIncomingCall(rec, req)

		body, _ := io.ReadAll(rec.Result().Body)
		if !strings.Contains(string(body), "One moment please.") {
			t.Errorf("body missing custom greeting: %s", body)
		}
		if !strings.Contains(string(body), "wss://voice.example.org/media-stream") {
			t.Errorf("body missing host-derived endpoint: %s", body)
		}
	})
}
