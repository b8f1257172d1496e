package ctlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hidmux/ctltypes"
)

// Client provides a high-level interface to the hidmuxd control API.
type Client struct{ transport *Transport }

// New constructs a client for the control API at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport, primarily for
// testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the identity and version of the hidmuxd server.
func (c *Client) Ping(ctx context.Context) (*ctltypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.PingResponse](raw)
}

// Status returns activation state and multiplexer geometry.
func (c *Client) Status(ctx context.Context) (*ctltypes.StatusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "status", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.StatusResponse](raw)
}

// Activate switches the multiplexer on, clearing and re-announcing every
// virtual device.
func (c *Client) Activate(ctx context.Context) (*ctltypes.ActiveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "activate", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.ActiveResponse](raw)
}

// Deactivate switches the multiplexer off. Fails when it is configured
// always-on.
func (c *Client) Deactivate(ctx context.Context) (*ctltypes.ActiveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "deactivate", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.ActiveResponse](raw)
}

// Clear empties every virtual device's report.
func (c *Client) Clear(ctx context.Context) (*ctltypes.ClearResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "clear", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.ClearResponse](raw)
}

// Devices lists the current report state of every virtual device.
func (c *Client) Devices(ctx context.Context) (*ctltypes.DevicesListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "device/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.DevicesListResponse](raw)
}

// Device returns the report state of one virtual device by index.
func (c *Client) Device(ctx context.Context, device int) (*ctltypes.DeviceState, error) {
	pathParams := map[string]string{"id": fmt.Sprintf("%d", device)}
	raw, err := c.transport.DoCtx(ctx, "device/{id}", nil, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[ctltypes.DeviceState](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem ctltypes.Error
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
