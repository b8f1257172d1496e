package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hidmux/ctlclient"
)

// Ctl groups the client-side control commands. Each one connects to a
// running hidmuxd, performs a single request and prints the JSON response.
type Ctl struct {
	Addr    string        `help:"Control API address of the daemon" default:"127.0.0.1:3843" env:"HIDMUX_CTL_ADDR"`
	Timeout time.Duration `help:"Request timeout" default:"5s"`

	Ping       CtlPing       `cmd:"" help:"Check daemon liveness"`
	Status     CtlStatus     `cmd:"" help:"Show activation state and geometry"`
	Activate   CtlActivate   `cmd:"" help:"Switch the multiplexer on"`
	Deactivate CtlDeactivate `cmd:"" help:"Switch the multiplexer off"`
	Clear      CtlClear      `cmd:"" help:"Release every held key on every channel"`
	Devices    CtlDevices    `cmd:"" help:"List per-channel report state"`
	Device     CtlDevice     `cmd:"" help:"Show one channel's report state"`
}

func (c *Ctl) exec(logger *slog.Logger, fn func(ctx context.Context, client *ctlclient.Client) (any, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	out, err := fn(ctx, ctlclient.New(c.Addr))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type CtlPing struct{}

func (CtlPing) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Ping(ctx)
	})
}

type CtlStatus struct{}

func (CtlStatus) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Status(ctx)
	})
}

type CtlActivate struct{}

func (CtlActivate) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Activate(ctx)
	})
}

type CtlDeactivate struct{}

func (CtlDeactivate) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Deactivate(ctx)
	})
}

type CtlClear struct{}

func (CtlClear) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Clear(ctx)
	})
}

type CtlDevices struct{}

func (CtlDevices) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		return c.Devices(ctx)
	})
}

type CtlDevice struct {
	ID int `arg:"" name:"id" help:"Channel index"`
}

func (d CtlDevice) Run(ctl *Ctl, logger *slog.Logger) error {
	return ctl.exec(logger, func(ctx context.Context, c *ctlclient.Client) (any, error) {
		state, err := c.Device(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", d.ID, err)
		}
		return state, nil
	})
}
