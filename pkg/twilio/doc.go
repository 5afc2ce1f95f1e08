// Package twilio implements the subset of the Twilio Media Streams
// websocket protocol used by the call bridge, plus the TwiML response
// that routes an incoming call into a media stream.
//
// A media stream carries G.711 µ-law audio at 8kHz, base64-encoded
// inside JSON text frames. Inbound events are connected, start, media,
// mark, and stop; outbound events are media, mark, and clear.
//
// See https://www.twilio.com/docs/voice/media-streams for the wire
// format reference.
package twilio
