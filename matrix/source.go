// Package matrix turns evdev key events from a physical keyboard into
// matrix position events. A Layout names the key expected at each position;
// the Source watches one input device and emits press/release transitions
// for the mapped positions, dropping autorepeats and unmapped keys.
package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
)

// Event is one observed key transition at a matrix position.
type Event struct {
	Position uint32
	Key      uint8
	Pressed  bool
	Time     time.Time
}

const (
	keyRelease = 0
	keyPress   = 1
)

// Source reads key events from one evdev input device.
type Source struct {
	dev    *evdev.InputDevice
	m      *mapping
	logger *slog.Logger
	events chan Event
}

// NewSource opens the input device at path and resolves the layout. With
// grab set the device is taken exclusively so the host session stops seeing
// its keys.
func NewSource(path string, layout Layout, grab bool, logger *slog.Logger) (*Source, error) {
	m, err := layout.compile()
	if err != nil {
		return nil, err
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}
	if grab {
		if err := dev.Grab(); err != nil {
			dev.File.Close()
			return nil, fmt.Errorf("grab input device %s: %w", path, err)
		}
	}
	logger.Info("input device opened", "path", path, "name", dev.Name, "grab", grab)
	return &Source{
		dev:    dev,
		m:      m,
		logger: logger,
		events: make(chan Event, 64),
	}, nil
}

// Events returns the channel of mapped key transitions. It is closed when
// Run returns.
func (s *Source) Events() <-chan Event { return s.events }

// Run reads the device until the context is canceled or the device goes
// away. Closing the underlying file unblocks the read.
func (s *Source) Run(ctx context.Context) error {
	defer close(s.events)

	go func() {
		<-ctx.Done()
		s.dev.File.Close()
	}()

	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read input device: %w", err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		if ev.Value != keyPress && ev.Value != keyRelease {
			continue // autorepeat
		}
		b, ok := s.m.byCode[ev.Code]
		if !ok {
			s.logger.Debug("unmapped key", "code", ev.Code)
			continue
		}
		select {
		case s.events <- Event{
			Position: b.position,
			Key:      b.usage,
			Pressed:  ev.Value == keyPress,
			Time:     time.Unix(ev.Time.Sec, ev.Time.Usec*1000),
		}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// FindKeyboard scans /dev/input for the first device that looks like a
// keyboard: key events present, no relative or absolute axes.
func FindKeyboard() (string, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}
	for _, dev := range devices {
		isKeyboard := false
		isPointer := false
		for capability := range dev.Capabilities {
			switch capability.Type {
			case evdev.EV_KEY:
				isKeyboard = true
			case evdev.EV_REL, evdev.EV_ABS:
				isPointer = true
			}
		}
		dev.File.Close()
		if isKeyboard && !isPointer {
			return dev.Fn, nil
		}
	}
	return "", fmt.Errorf("no keyboard-like input device found")
}
