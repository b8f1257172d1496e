// Package ctlclient implements the client side of the hidmuxd control
// protocol: request formatting, response parsing and error normalization.
package ctlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Transport is the low-level control protocol implementation.
//
// Request framing: `<path>[ SP <payload>] \x00` (null terminator), so the
// payload may contain newlines. Response framing: the server writes a single
// JSON line terminated by `\n` and closes the connection; we read until EOF
// and trim one trailing newline.
type Transport struct {
	addr string
	mock func(path string, payload any, pathParams map[string]string) (string, error)
	cfg  Config
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig creates a transport with custom timeouts.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport creates a transport returning canned responses without
// real networking, for tests.
func NewMockTransport(responder func(path string, payload any, pathParams map[string]string) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do sends a request and returns the response line without its trailing
// newline. Payload rules: []byte and string sent as-is, nil omitted,
// anything else JSON marshaled.
func (t *Transport) Do(path string, payload any, pathParams map[string]string) (string, error) {
	return t.DoCtx(context.Background(), path, payload, pathParams)
}

// DoCtx is like Do but honors the provided context and configured timeouts.
func (t *Transport) DoCtx(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload, pathParams)
	}
	fullPath := fillPath(path, pathParams)
	line := []byte(fullPath)
	if pb, ok := toPayloadBytes(payload); ok && len(pb) > 0 {
		line = append([]byte(fullPath+" "), pb...)
	}
	line = append(line, 0x00)

	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(line); err != nil {
		return "", fmt.Errorf("write request: %w", err)
	}

	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return strings.TrimSuffix(string(resp), "\n"), nil
}

func fillPath(path string, params map[string]string) string {
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return path
}

func toPayloadBytes(payload any) ([]byte, bool) {
	switch v := payload.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return b, true
	}
}
