// Package bridge relays one phone call between a Twilio media stream
// and an OpenAI Realtime session.
//
// Each call gets its own Session with a single-threaded control loop:
// reader goroutines feed telephony frames, model events, and resolved
// tool calls into channels, and the loop consumes them one at a time in
// arrival order. Audio frames are pumped between the legs while the
// loop tracks the state needed for natural turn-taking: a playback
// clock anchored to the caller's media timestamps, a FIFO of playback
// checkpoints (Twilio marks), barge-in interruption, and asynchronous
// tool dispatch.
//
// Sessions share nothing; a deployment runs one Session per call and no
// locking is needed inside a call.
package bridge
