// Package uhidtrans delivers reports through the Linux uhid subsystem. It
// creates one kernel-visible virtual keyboard per multiplexer device, so the
// host sees independent input devices per channel.
package uhidtrans

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/psanford/uhid"

	"hidmux/hid"
	"hidmux/transport"
)

const busUSB = 0x03

// Config describes the set of virtual keyboards to create.
type Config struct {
	Devices      int    `kong:"-"`
	KeySlots     int    `kong:"-"`
	BaseReportID uint8  `kong:"-"`
	NamePrefix   string `help:"Name prefix of the created virtual keyboards" default:"hidmux"`
	VendorID     uint32 `help:"Vendor ID reported by the virtual keyboards" default:"4617"`
	ProductID    uint32 `help:"Product ID reported by the virtual keyboards" default:"8960"`
}

type channel struct {
	dev    *uhid.Device
	events chan uhid.Event
}

// Transport sends each device's report to its own uhid keyboard.
type Transport struct {
	channels []channel
	cancel   context.CancelFunc
	logger   *slog.Logger
}

var _ transport.Transport = (*Transport)(nil)

// Open creates and registers all virtual keyboards. On any failure the
// already created ones are torn down.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Transport, error) {
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = "hidmux"
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Transport{cancel: cancel, logger: logger}

	for i := 0; i < cfg.Devices; i++ {
		reportID := cfg.BaseReportID + uint8(i)
		name := fmt.Sprintf("%s-%d", cfg.NamePrefix, i)

		dev, err := uhid.NewDevice(name, hid.Descriptor(reportID, cfg.KeySlots))
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("create uhid device %s: %w", name, err)
		}
		dev.Data.Bus = busUSB
		dev.Data.VendorID = cfg.VendorID
		dev.Data.ProductID = cfg.ProductID + uint32(i)

		events, err := dev.Open(ctx)
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("open uhid device %s: %w", name, err)
		}
		t.channels = append(t.channels, channel{dev: dev, events: events})
		logger.Info("virtual keyboard created", "name", name, "reportId", reportID)

		go t.drain(ctx, name, events)
	}
	return t, nil
}

// drain consumes kernel events for one device. Keyboards only ever see LED
// output reports, which carry no state we track.
func (t *Transport) drain(ctx context.Context, name string, events chan uhid.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == uhid.Output {
				t.logger.Debug("output report ignored", "device", name)
			}
		}
	}
}

// Send injects one report into the device's uhid channel.
func (t *Transport) Send(device int, report []byte) error {
	if device < 0 || device >= len(t.channels) {
		return fmt.Errorf("uhid: no channel for device %d", device)
	}
	if err := t.channels[device].dev.InjectEvent(report); err != nil {
		return fmt.Errorf("uhid inject for device %d: %w", device, err)
	}
	return nil
}

// Close destroys every virtual keyboard.
func (t *Transport) Close() error {
	t.cancel()
	var firstErr error
	for _, ch := range t.channels {
		if err := ch.dev.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.channels = nil
	return firstErr
}
