package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultURL is where the camera bridge listens by default.
	DefaultURL = "ws://localhost:12345"
	// DefaultReconnect is the delay before reconnecting after a drop.
	DefaultReconnect = 3 * time.Second
)

// Status is the connection state of a Camera.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Camera receives frames from a websocket camera bridge.
type Camera struct {
	URL       string
	Reconnect time.Duration
	Header    http.Header
	Dialer    *websocket.Dialer
	// OnStatus, when set, is called on every connection state change.
	OnStatus func(Status, error)
	// OnFrameError, when set, receives every frame that failed to decode.
	// The connection stays up and the previous frame remains current.
	OnFrameError func(error)
}

// NewCamera returns a Camera for url with the default reconnect delay.
func NewCamera(url string) *Camera {
	if url == "" {
		url = DefaultURL
	}
	return &Camera{URL: url, Reconnect: DefaultReconnect}
}

func (c *Camera) status(s Status, err error) {
	if c.OnStatus != nil {
		c.OnStatus(s, err)
	}
}

// Run connects and delivers frames, reconnecting after every drop until
// ctx is cancelled. Undecodable frames are reported through OnFrameError
// and skipped. A negative
// Reconnect disables reconnecting.
func (c *Camera) Run(ctx context.Context, deliver Deliver) error {
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	wait := c.Reconnect
	if wait == 0 {
		wait = DefaultReconnect
	}
	for {
		c.status(StatusConnecting, nil)
		err := c.session(ctx, dialer, deliver)
		if ctx.Err() != nil {
			c.status(StatusDisconnected, nil)
			return ctx.Err()
		}
		if err != nil {
			log.Printf("camera %s: %v", c.URL, err)
			c.status(StatusError, err)
		} else {
			c.status(StatusDisconnected, nil)
		}
		if wait < 0 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Camera) session(ctx context.Context, dialer *websocket.Dialer, deliver Deliver) error {
	conn, _, err := dialer.DialContext(ctx, c.URL, c.Header)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	c.status(StatusConnected, nil)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		if !IsFrame(msg) {
			continue
		}
		img, err := DecodeFrame(msg)
		if err != nil {
			log.Printf("camera %s: %v", c.URL, err)
			if c.OnFrameError != nil {
				c.OnFrameError(err)
			}
			continue
		}
		deliver(img)
	}
}
