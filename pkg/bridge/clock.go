package bridge

// Clock tracks the caller-side media clock and the playback-start
// reference for the assistant utterance currently streaming to the
// caller. The difference between the two approximates how much of the
// utterance has plausibly reached the caller's ear.
//
// The caller clock is advisory: Twilio reports timestamps per media
// frame and the latest report wins, with no ordering enforced.
type Clock struct {
	callerMS    int64
	anchorMS    int64
	utteranceID string
	speaking    bool
}

// RecordCallerTimestamp updates the caller clock. Latest wins;
// out-of-order values overwrite.
func (c *Clock) RecordCallerTimestamp(ms int64) {
	c.callerMS = ms
}

// CallerMS returns the latest caller clock reading.
func (c *Clock) CallerMS() int64 {
	return c.callerMS
}

// MarkUtteranceStart anchors playback start at the current caller clock
// if no utterance is active. The anchor belongs to the first chunk of
// an utterance: further calls while speaking only refresh the utterance
// id (deltas may carry it late) and leave the anchor alone.
func (c *Clock) MarkUtteranceStart(utteranceID string) {
	if c.speaking {
		if utteranceID != "" {
			c.utteranceID = utteranceID
		}
		return
	}
	c.speaking = true
	c.anchorMS = c.callerMS
	c.utteranceID = utteranceID
}

// Speaking reports whether an assistant utterance is active.
func (c *Clock) Speaking() bool {
	return c.speaking
}

// UtteranceID returns the id of the active utterance, or "" when idle
// or when the deltas carried no id.
func (c *Clock) UtteranceID() string {
	return c.utteranceID
}

// ElapsedPlaybackMS returns how many milliseconds of the active
// utterance have plausibly played, or zero when idle.
func (c *Clock) ElapsedPlaybackMS() int64 {
	if !c.speaking {
		return 0
	}
	return c.callerMS - c.anchorMS
}

// Reset clears the playback anchor and active utterance. Called when an
// utterance ends cleanly or is interrupted. The caller clock is kept;
// it belongs to the stream, not the utterance.
func (c *Clock) Reset() {
	c.anchorMS = 0
	c.utteranceID = ""
	c.speaking = false
}
