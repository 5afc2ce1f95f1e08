package twilio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecode reports a malformed media payload. Callers drop the frame
// and continue the call.
var ErrDecode = errors.New("twilio: malformed media payload")

// ErrProtocol reports a message that violates the media stream
// protocol. Callers ignore the message and continue the call.
var ErrProtocol = errors.New("twilio: protocol violation")

// DecodePayload converts the base64 payload of a media event into raw
// G.711 µ-law bytes. The transform is pure and stateless.
func DecodePayload(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw, nil
}

// EncodePayload converts raw G.711 µ-law bytes into the base64 payload
// of an outbound media event. Inverse of DecodePayload.
func EncodePayload(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}
