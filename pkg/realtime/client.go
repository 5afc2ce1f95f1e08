package realtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultURL is the default Realtime API websocket endpoint.
const DefaultURL = "wss://api.openai.com/v1/realtime"

// DefaultModel is used when ConnectConfig.Model is empty.
const DefaultModel = "gpt-4o-realtime-preview"

// Client dials Realtime API sessions.
type Client struct {
	apiKey           string
	url              string
	handshakeTimeout time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithURL overrides the websocket endpoint. Useful for Azure-style
// deployments and tests.
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithHandshakeTimeout bounds the websocket handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) { c.handshakeTimeout = d }
}

// NewClient creates a Realtime API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:           apiKey,
		url:              DefaultURL,
		handshakeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConnectConfig selects the model for a new session.
type ConnectConfig struct {
	Model string
}

// Connect establishes a websocket session with the Realtime API.
func (c *Client) Connect(ctx context.Context, config *ConnectConfig) (*Conn, error) {
	if config == nil {
		config = &ConnectConfig{}
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.apiKey)
	headers.Set("OpenAI-Beta", "realtime=v1")

	dialer := websocket.Dialer{HandshakeTimeout: c.handshakeTimeout}
	ws, resp, err := dialer.DialContext(ctx, fmt.Sprintf("%s?model=%s", c.url, model), headers)
	if err != nil {
		if resp != nil {
			return nil, &Error{
				Code:       "connection_failed",
				Message:    fmt.Sprintf("dial: %v", err),
				HTTPStatus: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("realtime: dial: %w", err)
	}

	conn := &Conn{
		ws:       ws,
		closeCh:  make(chan struct{}),
		eventsCh: make(chan eventOrError, 100),
	}
	go conn.readLoop()
	return conn, nil
}
