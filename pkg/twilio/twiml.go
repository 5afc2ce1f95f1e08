package twilio

import (
	"encoding/xml"
	"fmt"
)

// VoiceResponse is a minimal TwiML document for answering an incoming
// call and connecting it to a websocket media stream.
type VoiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Say speaks text to the caller.
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

// Pause waits for the given number of seconds.
type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// Connect hands the call over to a bidirectional stream.
type Connect struct {
	XMLName xml.Name `xml:"Connect"`
	Stream  Stream   `xml:"Stream"`
}

// Stream points Twilio at the media stream websocket endpoint.
type Stream struct {
	URL string `xml:"url,attr"`
}

// MarshalXML renders the verbs in order under the <Response> root.
func (r *VoiceResponse) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "Response"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, v := range r.Verbs {
		if err := e.Encode(v); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// ConnectStreamTwiML builds the TwiML returned by the incoming-call
// webhook: a short greeting followed by a <Connect><Stream> to the
// media stream endpoint on the given host.
func ConnectStreamTwiML(host, greeting string) ([]byte, error) {
	resp := &VoiceResponse{}
	if greeting != "" {
		resp.Verbs = append(resp.Verbs, Say{Text: greeting})
		resp.Verbs = append(resp.Verbs, Pause{Length: 1})
	}
	resp.Verbs = append(resp.Verbs, Connect{
		Stream: Stream{URL: fmt.Sprintf("wss://%s/media-stream", host)},
	})
	out, err := xml.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
