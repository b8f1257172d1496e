package mux

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hidmux/hid"
)

// ActivationMode selects how the multiplexer is switched on and off.
type ActivationMode string

const (
	// ActivationAlwaysOn keeps the multiplexer active from startup; a
	// deactivation request is rejected.
	ActivationAlwaysOn ActivationMode = "always-on"

	// ActivationExternal starts inactive and toggles on an external control
	// signal (the layer/mode collaborator, or the control API).
	ActivationExternal ActivationMode = "external"
)

// Config carries the build-time constants of one multiplexer instance.
// Nothing here is mutated after New; in particular the position routing
// table is fixed for the lifetime of the instance.
type Config struct {
	// Devices is the number of virtual keyboard channels.
	Devices int

	// KeySlots is the rollover capacity of each channel.
	KeySlots int

	// BaseReportID is the report ID of device 0; device i uses
	// BaseReportID+i. Chosen to not collide with the primary keyboard
	// report of the firmware.
	BaseReportID uint8

	// DefaultDevice receives every position without an explicit route.
	DefaultDevice int

	// Routes maps individual positions to device indexes. Positions absent
	// here fall through to DefaultDevice.
	Routes map[uint32]int

	// Positions is the number of tracked key positions.
	Positions uint32

	// Activation selects the lifecycle variant.
	Activation ActivationMode

	// KeepAlive is the interval at which every device's current report is
	// retransmitted so the host does not drop an idle virtual device.
	KeepAlive time.Duration

	// AnnounceRepeat is how many times the activation burst (one report per
	// device) is sent; AnnounceDelay separates the batches.
	AnnounceRepeat int
	AnnounceDelay  time.Duration
}

// Default constants mirror the reference split-keyboard layout: a 42-key
// matrix split into five channels, with the left half on one channel, three
// two-key finger clusters on their own channels, and everything else on the
// catch-all.
const (
	DefaultDevices      = 5
	DefaultBaseReportID = 0x10
	DefaultPositions    = 42
)

// DefaultRouteSpecs is the default position grouping in route-spec form.
var DefaultRouteSpecs = []string{"0-17:0", "18-19:1", "24-25:2", "30-31:3"}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	routes, err := ParseRoutes(DefaultRouteSpecs)
	if err != nil {
		panic(err) // static specs
	}
	return Config{
		Devices:        DefaultDevices,
		KeySlots:       hid.DefaultKeySlots,
		BaseReportID:   DefaultBaseReportID,
		DefaultDevice:  DefaultDevices - 1,
		Routes:         routes,
		Positions:      DefaultPositions,
		Activation:     ActivationAlwaysOn,
		KeepAlive:      5 * time.Second,
		AnnounceRepeat: 3,
		AnnounceDelay:  50 * time.Millisecond,
	}
}

// ParseRoutes expands route specs of the form "pos:device" or
// "first-last:device" into a per-position routing table. Later specs win on
// overlap.
func ParseRoutes(specs []string) (map[uint32]int, error) {
	routes := make(map[uint32]int)
	for _, spec := range specs {
		for _, part := range strings.Split(spec, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			posPart, devPart, ok := strings.Cut(part, ":")
			if !ok {
				return nil, fmt.Errorf("route %q: missing device index", part)
			}
			dev, err := strconv.Atoi(strings.TrimSpace(devPart))
			if err != nil {
				return nil, fmt.Errorf("route %q: bad device index: %w", part, err)
			}
			first, last, err := parsePositionRange(strings.TrimSpace(posPart))
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", part, err)
			}
			for p := first; p <= last; p++ {
				routes[p] = dev
			}
		}
	}
	return routes, nil
}

func parsePositionRange(s string) (first, last uint32, err error) {
	firstPart, lastPart, isRange := strings.Cut(s, "-")
	f, err := strconv.ParseUint(strings.TrimSpace(firstPart), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad position: %w", err)
	}
	if !isRange {
		return uint32(f), uint32(f), nil
	}
	l, err := strconv.ParseUint(strings.TrimSpace(lastPart), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad position: %w", err)
	}
	if l < f {
		return 0, 0, fmt.Errorf("descending range %s", s)
	}
	return uint32(f), uint32(l), nil
}

func (c Config) validate() error {
	if c.Devices < 1 {
		return fmt.Errorf("device count %d: need at least one device", c.Devices)
	}
	if c.KeySlots < 1 {
		return fmt.Errorf("key slots %d: need at least one slot", c.KeySlots)
	}
	if c.Positions < 1 {
		return fmt.Errorf("position count %d: need at least one position", c.Positions)
	}
	if int(c.BaseReportID)+c.Devices-1 > 0xFF {
		return fmt.Errorf("base report ID 0x%02x leaves no room for %d devices", c.BaseReportID, c.Devices)
	}
	if c.DefaultDevice < 0 || c.DefaultDevice >= c.Devices {
		return fmt.Errorf("default device %d: %w", c.DefaultDevice, ErrInvalidDevice)
	}
	for pos, dev := range c.Routes {
		if pos >= c.Positions {
			return fmt.Errorf("route for position %d: %w", pos, ErrInvalidPosition)
		}
		if dev < 0 || dev >= c.Devices {
			return fmt.Errorf("route for position %d to device %d: %w", pos, dev, ErrInvalidDevice)
		}
	}
	switch c.Activation {
	case ActivationAlwaysOn, ActivationExternal:
	default:
		return fmt.Errorf("unknown activation mode %q", c.Activation)
	}
	// The keep-alive interval feeds a ticker, which rejects non-positive
	// durations.
	if c.KeepAlive <= 0 {
		return fmt.Errorf("keep-alive interval %s: must be positive", c.KeepAlive)
	}
	if c.AnnounceDelay < 0 {
		return fmt.Errorf("announce delay %s: must not be negative", c.AnnounceDelay)
	}
	return nil
}
