package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGatewayURL is used when the login service does not name a
// gateway, which is the common case in local development.
const DefaultGatewayURL = "ws://127.0.0.1:18080/ws"

// gatewayPort is the fixed port the gateway listens on. Login services
// frequently return their own HTTP origin as the gateway address, so the
// port is forced rather than trusted.
const gatewayPort = "18080"

// LoginRequest is the JSON body of the login bootstrap call.
type LoginRequest struct {
	DeviceID string `json:"device_id"`
	AppID    string `json:"app_id"`
	IsGuest  bool   `json:"is_guest"`
}

// LoginResponse is the JSON reply of the login service. SessionID is the
// token presented to the gateway during authentication.
type LoginResponse struct {
	Success    bool   `json:"success"`
	SessionID  string `json:"session_id"`
	Username   string `json:"username"`
	GatewayURL string `json:"gateway_url"`
	Error      string `json:"error"`
}

// LoginError is a login service rejection (HTTP-level success with
// success=false in the body).
type LoginError struct {
	Reason string
}

func (e *LoginError) Error() string {
	if e.Reason == "" {
		return "login rejected"
	}
	return "login rejected: " + e.Reason
}

// login performs the bootstrap POST and returns the parsed reply.
func login(ctx context.Context, httpClient *http.Client, loginURL string, reqBody LoginRequest) (*LoginResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login service returned status %d", resp.StatusCode)
	}

	var lr LoginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if !lr.Success {
		return nil, &LoginError{Reason: lr.Error}
	}
	return &lr, nil
}

// GatewayWebSocketURL normalizes the gateway address returned by the
// login service into a dialable WebSocket URL. Fully formed ws:// and
// wss:// URLs are trusted as-is. Everything else keeps only its host:
// HTTP schemes map to their WebSocket counterparts and bare host or
// host:port addresses get a ws scheme, with the port forced to the
// gateway port and the path to /ws in both cases. An empty input yields
// DefaultGatewayURL.
func GatewayWebSocketURL(raw string) (string, error) {
	if raw == "" {
		return DefaultGatewayURL, nil
	}

	if strings.HasPrefix(raw, "ws://") || strings.HasPrefix(raw, "wss://") {
		if _, err := url.Parse(raw); err != nil {
			return "", fmt.Errorf("gateway url %q: %w", raw, err)
		}
		return raw, nil
	}

	// Login services commonly hand back a bare "host" or "host:port"
	// with no scheme at all; url.Parse misreads those, so they are
	// handled before it.
	if !strings.Contains(raw, "://") {
		host := raw
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		if host == "" {
			return "", fmt.Errorf("gateway url %q: missing host", raw)
		}
		return "ws://" + host + ":" + gatewayPort + "/ws", nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("gateway url %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("gateway url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("gateway url %q: missing host", raw)
	}

	u.Host = u.Hostname() + ":" + gatewayPort
	u.Path = "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// GenerateDeviceID returns a fresh device identifier in the same form
// the game client uses.
func GenerateDeviceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "wxgame_0000000000000000"
	}
	return "wxgame_" + hex.EncodeToString(b[:])
}
