package bridge

import "testing"

func TestClockCallerTimestampLatestWins(t *testing.T) {
	var c Clock
	c.RecordCallerTimestamp(1000)
	c.RecordCallerTimestamp(2000)
	c.RecordCallerTimestamp(1500) // out of order
	if got := c.CallerMS(); got != 1500 {
		t.Errorf("CallerMS() = %d, want 1500", got)
	}
}

func TestClockAnchor(t *testing.T) {
	t.Run("anchors on first chunk only", func(t *testing.T) {
		var c Clock
		c.RecordCallerTimestamp(1000)
		c.MarkUtteranceStart("item_1")
		if !c.Speaking() {
			t.Fatal("Speaking() = false after MarkUtteranceStart")
		}

		c.RecordCallerTimestamp(1800)
		c.MarkUtteranceStart("item_1") // later chunk, must not re-anchor
		if got := c.ElapsedPlaybackMS(); got != 800 {
			t.Errorf("ElapsedPlaybackMS() = %d, want 800", got)
		}
	})

	t.Run("late id refreshes without re-anchoring", func(t *testing.T) {
		var c Clock
		c.RecordCallerTimestamp(500)
		c.MarkUtteranceStart("")
		c.RecordCallerTimestamp(700)
		c.MarkUtteranceStart("item_2")
		if got := c.UtteranceID(); got != "item_2" {
			t.Errorf("UtteranceID() = %q, want item_2", got)
		}
		if got := c.ElapsedPlaybackMS(); got != 200 {
			t.Errorf("ElapsedPlaybackMS() = %d, want 200", got)
		}
	})

	t.Run("zero elapsed immediately after anchor", func(t *testing.T) {
		var c Clock
		c.RecordCallerTimestamp(3000)
		c.MarkUtteranceStart("item_3")
		if got := c.ElapsedPlaybackMS(); got != 0 {
			t.Errorf("ElapsedPlaybackMS() = %d, want 0", got)
		}
	})
}

func TestClockIdle(t *testing.T) {
	var c Clock
	c.RecordCallerTimestamp(9000)
	if got := c.ElapsedPlaybackMS(); got != 0 {
		t.Errorf("idle ElapsedPlaybackMS() = %d, want 0", got)
	}
	if c.Speaking() {
		t.Error("Speaking() = true with no active utterance")
	}
}

func TestClockReset(t *testing.T) {
	var c Clock
	c.RecordCallerTimestamp(4000)
	c.MarkUtteranceStart("item_4")
	c.RecordCallerTimestamp(4500)
	c.Reset()

	if c.Speaking() {
		t.Error("Speaking() = true after Reset")
	}
	if got := c.UtteranceID(); got != "" {
		t.Errorf("UtteranceID() = %q after Reset, want empty", got)
	}
	// The caller clock survives; it belongs to the stream.
	if got := c.CallerMS(); got != 4500 {
		t.Errorf("CallerMS() = %d after Reset, want 4500", got)
	}

	// A new utterance anchors at the current clock.
	c.MarkUtteranceStart("item_5")
	c.RecordCallerTimestamp(4700)
	if got := c.ElapsedPlaybackMS(); got != 200 {
		t.Errorf("ElapsedPlaybackMS() = %d after re-anchor, want 200", got)
	}
}
