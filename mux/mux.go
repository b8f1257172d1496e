// Package mux redistributes per-position key events across a fixed set of
// independent virtual keyboard channels, each with its own report ID, so
// that tightly clustered keys do not compete for rollover slots on a single
// report.
//
// A Mux owns all mutable state (the device report table and the position
// tracker) and performs no locking: every mutating call must come from one
// goroutine. Loop provides that serialization for the daemon, marshaling
// control requests and keep-alive ticks onto a single execution context.
package mux

import (
	"errors"
	"fmt"
	"log/slog"

	"hidmux/hid"
	"hidmux/transport"
)

// Mux is one multiplexer instance. Create with New.
type Mux struct {
	cfg     Config
	tr      transport.Transport
	log     *slog.Logger
	reports []*hid.Report
	// tracked records, per position, the key code last pressed through the
	// multiplexer (hid.NoKey when none), so a release carrying only the
	// position can be reversed without re-deriving the key code.
	tracked []uint8
	active  bool
}

// New returns a Mux with empty reports. In always-on mode the instance
// starts active; the caller still owes one Announce so the host enumerates
// every channel before the first keypress.
func New(cfg Config, tr transport.Transport, logger *slog.Logger) (*Mux, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("mux config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mux{
		cfg:     cfg,
		tr:      tr,
		log:     logger,
		reports: make([]*hid.Report, cfg.Devices),
		tracked: make([]uint8, cfg.Positions),
		active:  cfg.Activation == ActivationAlwaysOn,
	}
	for i := range m.reports {
		m.reports[i] = hid.NewReport(cfg.BaseReportID+uint8(i), cfg.KeySlots)
	}
	return m, nil
}

// Config returns the configuration the Mux was built with.
func (m *Mux) Config() Config { return m.cfg }

// Devices returns the number of virtual keyboard channels.
func (m *Mux) Devices() int { return m.cfg.Devices }

// Active reports whether press and modifier operations currently take effect.
func (m *Mux) Active() bool { return m.active }

// DeviceForPosition resolves the channel owning a position. See
// Config.DeviceForPosition.
func (m *Mux) DeviceForPosition(position uint32) int {
	return m.cfg.DeviceForPosition(position)
}

// Snapshot returns a copy of one device's report state.
func (m *Mux) Snapshot(device int) (hid.Snapshot, error) {
	if device < 0 || device >= len(m.reports) {
		return hid.Snapshot{}, fmt.Errorf("device %d: %w", device, ErrInvalidDevice)
	}
	return m.reports[device].Snapshot(), nil
}

// Press records a key on one channel and transmits the updated report.
// Pressing a key already held is a no-op success. Returns
// ErrCapacityExceeded when the channel's slots are full; the press is
// dropped and the existing keys are untouched.
func (m *Mux) Press(device int, key uint8) error {
	r, err := m.report(device)
	if err != nil {
		return err
	}
	if !m.active {
		return ErrInactive
	}
	if err := r.Press(key); err != nil {
		return fmt.Errorf("device %d key 0x%02x: %w", device, key, err)
	}
	return m.send(device)
}

// Release removes a key from one channel and transmits the updated report.
// Releasing a key that is not held is a no-op success: duplicate or stale
// release events are expected.
func (m *Mux) Release(device int, key uint8) error {
	r, err := m.report(device)
	if err != nil {
		return err
	}
	r.Release(key)
	return m.send(device)
}

// SetModifiers ORs mask into one channel's modifier byte and transmits.
func (m *Mux) SetModifiers(device int, mask uint8) error {
	r, err := m.report(device)
	if err != nil {
		return err
	}
	if !m.active {
		return ErrInactive
	}
	r.SetModifiers(mask)
	return m.send(device)
}

// ClearModifiers clears mask from one channel's modifier byte and transmits.
func (m *Mux) ClearModifiers(device int, mask uint8) error {
	r, err := m.report(device)
	if err != nil {
		return err
	}
	if !m.active {
		return ErrInactive
	}
	r.ClearModifiers(mask)
	return m.send(device)
}

// Clear empties one channel's key slots and modifiers and transmits the
// empty report. Valid regardless of activation state.
func (m *Mux) Clear(device int) error {
	r, err := m.report(device)
	if err != nil {
		return err
	}
	r.Reset()
	return m.send(device)
}

// ClearAll clears every channel in index order and forgets all tracked
// positions. Transmission errors are collected, not short-circuited: a
// not-ready transport must not leave later channels uncleared in memory.
func (m *Mux) ClearAll() error {
	for i := range m.tracked {
		m.tracked[i] = hid.NoKey
	}
	var errs []error
	for i := range m.reports {
		if err := m.Clear(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PositionPress routes a press at a physical position to its channel,
// remembering the key code so the matching release needs only the position.
// The tracker entry is written last-write-wins, but only once the press took
// effect in memory; a press dropped for capacity leaves no tracker entry and
// therefore no stuck key.
func (m *Mux) PositionPress(position uint32, key uint8) error {
	if position >= m.cfg.Positions {
		return fmt.Errorf("position %d: %w", position, ErrInvalidPosition)
	}
	if !m.active {
		return ErrInactive
	}
	device := m.cfg.DeviceForPosition(position)
	if err := m.reports[device].Press(key); err != nil {
		return fmt.Errorf("device %d key 0x%02x: %w", device, key, err)
	}
	m.tracked[position] = key
	return m.send(device)
}

// PositionRelease reverses the press last tracked at a position. With no
// tracked key (never pressed, or wiped by an activation toggle mid-hold) it
// is a no-op success. The tracker entry is cleared together with the report
// mutation; only the transmission can fail, and the state will be resent.
func (m *Mux) PositionRelease(position uint32) error {
	if position >= m.cfg.Positions {
		return fmt.Errorf("position %d: %w", position, ErrInvalidPosition)
	}
	key := m.tracked[position]
	if key == hid.NoKey {
		return nil
	}
	m.tracked[position] = hid.NoKey
	device := m.cfg.DeviceForPosition(position)
	m.reports[device].Release(key)
	return m.send(device)
}

// SetActive transitions activation state. Entering either state clears all
// channels and transmits the empty reports, so the host never sees keys
// latched across a toggle; entering the active state this also serves as
// the first announce batch. Deactivation is rejected in always-on mode.
func (m *Mux) SetActive(active bool) error {
	if !active && m.cfg.Activation == ActivationAlwaysOn {
		return ErrAlwaysOn
	}
	if m.active == active {
		return nil
	}
	if active {
		m.active = true
		m.log.Info("multiplexer activated", "devices", m.cfg.Devices)
		return m.ClearAll()
	}
	// Transmit the all-keys-up reports while still nominally active, then
	// go quiet.
	err := m.ClearAll()
	m.active = false
	m.log.Info("multiplexer deactivated")
	return err
}

// Announce transmits every channel's current (possibly empty) report so the
// host's HID enumeration sees all virtual devices.
func (m *Mux) Announce() error {
	var errs []error
	for i := range m.reports {
		if err := m.send(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RetransmitAll is the keep-alive body: resend every report unconditionally.
func (m *Mux) RetransmitAll() error {
	return m.Announce()
}

func (m *Mux) report(device int) (*hid.Report, error) {
	if device < 0 || device >= len(m.reports) {
		return nil, fmt.Errorf("device %d: %w", device, ErrInvalidDevice)
	}
	return m.reports[device], nil
}

// send hands one channel's wire buffer to the transport. A failure is
// surfaced but the in-memory report is not rolled back; it will be resent on
// the next mutation or keep-alive tick.
func (m *Mux) send(device int) error {
	buf := m.reports[device].BuildReport()
	if err := m.tr.Send(device, buf); err != nil {
		m.log.Debug("report transmission failed", "device", device, "error", err)
		return fmt.Errorf("send report for device %d: %w", device, err)
	}
	return nil
}
