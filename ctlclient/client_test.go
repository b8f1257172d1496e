package ctlclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/ctlclient"
	"hidmux/ctltypes"
)

// testClient constructs a client backed by an in-memory responder. responses
// maps paths (before path param substitution) to raw JSON payloads. A
// non-nil err makes every request fail, simulating dial failures.
func testClient(responses map[string]string, err error) *ctlclient.Client {
	return ctlclient.WithTransport(ctlclient.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		if out, ok := responses[path]; ok {
			return out, nil
		}
		return "", nil
	}))
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setup      func(responses map[string]string) (err error)
		call       func(c *ctlclient.Client) (any, error)
		wantErr    string
		assertFunc func(t *testing.T, got any)
	}{
		{
			name: "ping",
			setup: func(responses map[string]string) error {
				responses["ping"] = `{"server":"hidmuxd","version":"0.1.0"}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Ping(ctx) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*ctltypes.PingResponse)
				assert.Equal(t, "hidmuxd", resp.Server)
			},
		},
		{
			name: "status",
			setup: func(responses map[string]string) error {
				responses["status"] = `{"active":true,"devices":5,"keySlots":18,"positions":42,"keepAlive":"5s"}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Status(ctx) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*ctltypes.StatusResponse)
				assert.True(t, resp.Active)
				assert.Equal(t, 5, resp.Devices)
				assert.Equal(t, "5s", resp.KeepAlive)
			},
		},
		{
			name: "activate",
			setup: func(responses map[string]string) error {
				responses["activate"] = `{"active":true}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Activate(ctx) },
			assertFunc: func(t *testing.T, got any) {
				assert.True(t, got.(*ctltypes.ActiveResponse).Active)
			},
		},
		{
			name: "deactivate rejected when always-on",
			setup: func(responses map[string]string) error {
				responses["deactivate"] = `{"status":409,"title":"Conflict","detail":"multiplexer is configured always-on"}`
				return nil
			},
			call:    func(c *ctlclient.Client) (any, error) { return c.Deactivate(ctx) },
			wantErr: "409 Conflict: multiplexer is configured always-on",
		},
		{
			name: "device list",
			setup: func(responses map[string]string) error {
				responses["device/list"] = `{"devices":[{"device":0,"reportId":16,"modifiers":0,"held":1,"keys":[4,0]}]}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Devices(ctx) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*ctltypes.DevicesListResponse)
				require.Len(t, resp.Devices, 1)
				assert.Equal(t, uint8(0x10), resp.Devices[0].ReportID)
			},
		},
		{
			name: "device by index",
			setup: func(responses map[string]string) error {
				responses["device/{id}"] = `{"device":2,"reportId":18,"modifiers":2,"held":0,"keys":[0]}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Device(ctx, 2) },
			assertFunc: func(t *testing.T, got any) {
				state := got.(*ctltypes.DeviceState)
				assert.Equal(t, 2, state.Device)
				assert.Equal(t, uint8(0x12), state.ReportID)
			},
		},
		{
			name: "device not found",
			setup: func(responses map[string]string) error {
				responses["device/{id}"] = `{"status":404,"title":"Not Found","detail":"no such device"}`
				return nil
			},
			call:    func(c *ctlclient.Client) (any, error) { return c.Device(ctx, 99) },
			wantErr: "404 Not Found: no such device",
		},
		{
			name: "clear",
			setup: func(responses map[string]string) error {
				responses["clear"] = `{"devices":5}`
				return nil
			},
			call: func(c *ctlclient.Client) (any, error) { return c.Clear(ctx) },
			assertFunc: func(t *testing.T, got any) {
				assert.Equal(t, 5, got.(*ctltypes.ClearResponse).Devices)
			},
		},
		{
			name:    "transport failure",
			setup:   func(responses map[string]string) error { return errors.New("dial fail") },
			call:    func(c *ctlclient.Client) (any, error) { return c.Status(ctx) },
			wantErr: "dial fail",
		},
		{
			name:    "blank response",
			setup:   func(responses map[string]string) error { return nil },
			call:    func(c *ctlclient.Client) (any, error) { return c.Status(ctx) },
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{}
			errInject := tt.setup(responses)
			c := testClient(responses, errInject)

			got, err := tt.call(c)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.assertFunc != nil {
				tt.assertFunc(t, got)
			}
		})
	}
}

func TestErrorAsCtlError(t *testing.T) {
	c := testClient(map[string]string{
		"deactivate": `{"status":409,"title":"Conflict","detail":"always-on"}`,
	}, nil)

	_, err := c.Deactivate(context.Background())
	require.Error(t, err)

	var ce *ctltypes.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 409, ce.Status)
}
