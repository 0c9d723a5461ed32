package source

import (
	"context"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const clientBacklog = 4

// Server relays frames to every connected websocket client using the
// camera framing. It stands in for a camera bridge during development.
type Server struct {
	Quality int

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*serverClient]struct{}
	last    []byte
}

type serverClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer returns a Server accepting any origin.
func NewServer() *Server {
	return &Server{
		Quality: DefaultJPEGQuality,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: map[*serverClient]struct{}{},
	}
}

// Clients reports the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ServeHTTP upgrades the request and streams frames until the client leaves.
// A new client immediately receives the most recent frame.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("camera server: upgrade: %v", err)
		return
	}
	c := &serverClient{conn: conn, send: make(chan []byte, clientBacklog)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.send <- s.last
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		select {
		case <-done:
			return
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("camera server: write: %v", err)
				return
			}
		}
	}
}

// Broadcast encodes img once and queues it for every client. Clients that
// fall behind skip frames.
func (s *Server) Broadcast(img image.Image) error {
	msg, err := EncodeFrame(img, s.Quality)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = msg
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
	return nil
}

// Feed runs src and broadcasts its frames.
func (s *Server) Feed(ctx context.Context, src Source) error {
	return src.Run(ctx, func(img image.Image) {
		if err := s.Broadcast(img); err != nil {
			log.Printf("camera server: %v", err)
		}
	})
}
