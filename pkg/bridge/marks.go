package bridge

import "github.com/google/uuid"

// MarkQueue is the FIFO ledger of playback checkpoints sent to the
// telephony leg. Twilio echoes each mark after playing all audio sent
// before it; the protocol carries no correlation, so echoes are trusted
// to arrive in the order sent and always pop the oldest token.
type MarkQueue struct {
	tokens []string
}

// Enqueue appends a fresh checkpoint token and returns it for the
// outbound mark frame.
func (q *MarkQueue) Enqueue() string {
	token := uuid.NewString()
	q.tokens = append(q.tokens, token)
	return token
}

// Acknowledge pops the oldest pending token. An acknowledgment with
// nothing pending is a no-op; the queue never goes negative.
func (q *MarkQueue) Acknowledge() (string, bool) {
	if len(q.tokens) == 0 {
		return "", false
	}
	token := q.tokens[0]
	q.tokens = q.tokens[1:]
	return token, true
}

// Clear discards all pending tokens. Used on barge-in: any in-flight
// checkpoints refer to audio about to be flushed.
func (q *MarkQueue) Clear() {
	q.tokens = nil
}

// Len returns the number of pending checkpoints.
func (q *MarkQueue) Len() int {
	return len(q.tokens)
}
