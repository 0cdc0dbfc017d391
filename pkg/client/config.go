package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds session configuration. Zero values are replaced by the
// defaults documented on each field.
type Config struct {
	// LoginURL is the HTTP endpoint of the login bootstrap service.
	// Default: http://127.0.0.1:8081/login.
	LoginURL string

	// AppID is sent with the login bootstrap and auth request.
	// Default: "wxgame_app".
	AppID string

	// DeviceID identifies this installation. Default: freshly generated.
	DeviceID string

	// ClientVersion is reported during authentication.
	// Default: "1.0.0".
	ClientVersion string

	// ProtocolVersion is reported during authentication.
	// Default: "1.0".
	ProtocolVersion string

	// DeviceType is reported during authentication. Default: "desktop".
	DeviceType string

	// Token seeds the session with a stored login token so Connect can
	// be called without a fresh Login. Default: empty.
	Token string

	// GatewayURL pins the gateway address instead of taking it from the
	// login response. Default: empty (resolved by Login, falling back to
	// DefaultGatewayURL).
	GatewayURL string

	// HandshakeTimeout bounds the gateway dial. Default: 10 seconds.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each frame write. Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxFrameSize is the largest inbound frame accepted before the
	// connection is torn down. Default: protocol.DefaultMaxFrameSize.
	MaxFrameSize int

	// EventBuffer is the per-subscriber channel depth. When a subscriber
	// falls behind, events are dropped rather than blocking the read
	// loop. Default: 64.
	EventBuffer int

	// Logger receives structured session logs. Default: slog.Default().
	Logger *slog.Logger

	// HTTPClient performs the login bootstrap. Default: a client with a
	// 10 second timeout.
	HTTPClient *http.Client

	// Registry receives session metrics. Default: a private registry, so
	// multiple sessions in one process never collide.
	Registry prometheus.Registerer

	// TracerName names the tracer used for dispatch spans.
	// Default: "lexicard/client".
	TracerName string

	// Dial opens the gateway socket. Default: DialGateway.
	Dial DialFunc
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		LoginURL:         "http://127.0.0.1:8081/login",
		AppID:            "wxgame_app",
		DeviceID:         GenerateDeviceID(),
		ClientVersion:    "1.0.0",
		ProtocolVersion:  "1.0",
		DeviceType:       "desktop",
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		MaxFrameSize:     0, // protocol default
		EventBuffer:      64,
		Logger:           slog.Default(),
		HTTPClient:       &http.Client{Timeout: 10 * time.Second},
		Registry:         prometheus.NewRegistry(),
		TracerName:       "lexicard/client",
		Dial:             DialGateway,
	}
}

// Option mutates a Config before the session is built.
type Option func(*Config)

// WithLoginURL points the bootstrap at a different login service.
func WithLoginURL(u string) Option {
	return func(c *Config) { c.LoginURL = u }
}

// WithAppID overrides the application identifier.
func WithAppID(id string) Option {
	return func(c *Config) { c.AppID = id }
}

// WithDeviceID pins the device identifier instead of generating one.
func WithDeviceID(id string) Option {
	return func(c *Config) { c.DeviceID = id }
}

// WithToken seeds the session with a stored login token.
func WithToken(token string) Option {
	return func(c *Config) { c.Token = token }
}

// WithGatewayURL pins the gateway address.
func WithGatewayURL(u string) Option {
	return func(c *Config) { c.GatewayURL = u }
}

// WithLogger routes session logs to the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithHTTPClient overrides the client used for the login bootstrap.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithRegistry registers session metrics on a shared registry. The
// caller is responsible for avoiding duplicate registration across
// sessions.
func WithRegistry(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = r }
}

// WithMaxFrameSize caps inbound frame sizes.
func WithMaxFrameSize(n int) Option {
	return func(c *Config) { c.MaxFrameSize = n }
}

// WithEventBuffer sets the per-subscriber channel depth.
func WithEventBuffer(n int) Option {
	return func(c *Config) { c.EventBuffer = n }
}

// WithHandshakeTimeout bounds the gateway dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Config) { c.HandshakeTimeout = d }
}

// WithWriteTimeout bounds each frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) { c.WriteTimeout = d }
}

// WithDialer replaces the gateway dialer, mainly for tests.
func WithDialer(d DialFunc) Option {
	return func(c *Config) { c.Dial = d }
}

// WithTracerName names the tracer used for dispatch spans.
func WithTracerName(name string) Option {
	return func(c *Config) { c.TracerName = name }
}
