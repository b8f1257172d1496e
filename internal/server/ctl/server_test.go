package ctl_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/ctlclient"
	"hidmux/ctltypes"
	"hidmux/hid"
	"hidmux/internal/server/ctl"
	"hidmux/internal/server/ctl/handler"
	"hidmux/mux"
	"hidmux/transport"
)

// startServer wires the full control plane: mux, loop and TCP server on an
// ephemeral port, returning a client pointed at it.
func startServer(t *testing.T, mode mux.ActivationMode) (*ctlclient.Client, *mux.Loop, *transport.Recorder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := mux.DefaultConfig()
	cfg.Activation = mode
	rec := transport.NewRecorder()
	m, err := mux.New(cfg, rec, logger)
	require.NoError(t, err)

	l := mux.NewLoop(m, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(cancel)

	srv := ctl.New(ctl.ServerConfig{Addr: "127.0.0.1:0"}, logger)
	r := srv.Router()
	r.Register("ping", handler.Ping())
	r.Register("status", handler.Status(l))
	r.Register("activate", handler.Activate(l))
	r.Register("deactivate", handler.Deactivate(l))
	r.Register("clear", handler.Clear(l))
	r.Register("device/list", handler.DeviceList(l))
	r.Register("device/{id}", handler.DeviceGet(l))
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)

	return ctlclient.New(srv.Addr().String()), l, rec
}

func TestServerPingStatus(t *testing.T) {
	c, _, _ := startServer(t, mux.ActivationAlwaysOn)
	ctx := context.Background()

	ping, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hidmuxd", ping.Server)
	assert.Equal(t, ctl.Version, ping.Version)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, mux.DefaultDevices, status.Devices)
	assert.Equal(t, hid.DefaultKeySlots, status.KeySlots)
}

func TestServerActivationRoundTrip(t *testing.T) {
	c, _, rec := startServer(t, mux.ActivationExternal)
	ctx := context.Background()

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Active)

	active, err := c.Activate(ctx)
	require.NoError(t, err)
	assert.True(t, active.Active)

	// Activation announces every device.
	require.Eventually(t, func() bool {
		return rec.Count() >= mux.DefaultDevices
	}, time.Second, 10*time.Millisecond)

	active, err = c.Deactivate(ctx)
	require.NoError(t, err)
	assert.False(t, active.Active)
}

func TestServerDeactivateConflict(t *testing.T) {
	c, _, _ := startServer(t, mux.ActivationAlwaysOn)

	_, err := c.Deactivate(context.Background())
	require.Error(t, err)

	var ce *ctltypes.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 409, ce.Status)
}

func TestServerDeviceInspection(t *testing.T) {
	c, l, _ := startServer(t, mux.ActivationAlwaysOn)
	ctx := context.Background()

	require.NoError(t, l.Do(ctx, func(m *mux.Mux) error {
		return m.Press(2, hid.KeyB)
	}))

	list, err := c.Devices(ctx)
	require.NoError(t, err)
	require.Len(t, list.Devices, mux.DefaultDevices)
	assert.Equal(t, 1, list.Devices[2].Held)

	state, err := c.Device(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Device)
	assert.Equal(t, uint8(hid.KeyB), state.Keys[0])

	_, err = c.Device(ctx, 99)
	var ce *ctltypes.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.Status)
}

func TestServerRawUnknownPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := ctl.New(ctl.ServerConfig{Addr: "127.0.0.1:0"}, logger)
	srv.Router().Register("ping", handler.Ping())
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("nonsense\x00"))
	require.NoError(t, err)

	buf := make([]byte, 512)
	n, _ := conn.Read(buf)
	assert.Contains(t, string(buf[:n]), `"status":404`)
}
