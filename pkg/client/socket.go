package client

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Socket is the byte-transport beneath a Session. Implementations hand
// back whatever chunk the transport delivered; callers must not assume
// chunk boundaries align with protocol frames.
type Socket interface {
	// ReadMessage blocks until the transport delivers a chunk.
	ReadMessage() ([]byte, error)

	// WriteMessage sends one chunk. Callers serialize writes.
	WriteMessage(data []byte) error

	Close() error
}

type wsSocket struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (s *wsSocket) ReadMessage() ([]byte, error) {
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		// Text frames are not part of the protocol; ignore them.
		if messageType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (s *wsSocket) WriteMessage(data []byte) error {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *wsSocket) Close() error {
	return s.conn.Close()
}

type tcpSocket struct {
	conn         net.Conn
	buf          []byte
	writeTimeout time.Duration
}

func (s *tcpSocket) ReadMessage() ([]byte, error) {
	n, err := s.conn.Read(s.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		return chunk, nil
	}
	return nil, err
}

func (s *tcpSocket) WriteMessage(data []byte) error {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := s.conn.Write(data)
	return err
}

func (s *tcpSocket) Close() error {
	return s.conn.Close()
}

// DialFunc opens a Socket to a gateway address. The default
// implementation routes on the URL scheme.
type DialFunc func(ctx context.Context, rawURL string, cfg *Config) (Socket, error)

// DialGateway connects to a gateway URL. ws:// and wss:// use a
// WebSocket handshake; tcp:// opens a raw stream carrying the same
// length-prefixed frames.
func DialGateway(ctx context.Context, rawURL string, cfg *Config) (Socket, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("gateway url: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		dialer := websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		}
		conn, resp, err := dialer.DialContext(ctx, rawURL, nil)
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("websocket dial %s: status %d: %w", rawURL, resp.StatusCode, err)
			}
			return nil, fmt.Errorf("websocket dial %s: %w", rawURL, err)
		}
		return &wsSocket{conn: conn, writeTimeout: cfg.WriteTimeout}, nil

	case "tcp":
		d := net.Dialer{Timeout: cfg.HandshakeTimeout}
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("tcp dial %s: %w", u.Host, err)
		}
		return &tcpSocket{conn: conn, buf: make([]byte, 32*1024), writeTimeout: cfg.WriteTimeout}, nil

	default:
		return nil, fmt.Errorf("unsupported gateway scheme %q", u.Scheme)
	}
}
