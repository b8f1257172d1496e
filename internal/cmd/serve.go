package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hidmux/internal/log"
	"hidmux/internal/server/ctl"
	"hidmux/internal/server/ctl/handler"
	"hidmux/matrix"
	"hidmux/mux"
	"hidmux/transport"
	"hidmux/transport/uhidtrans"
)

// Serve runs the multiplexer daemon: virtual keyboards, input capture and
// the control API.
type Serve struct {
	Devices       int           `help:"Number of virtual keyboard channels" default:"5" env:"HIDMUX_DEVICES"`
	KeySlots      int           `help:"Rollover capacity per channel" default:"18" env:"HIDMUX_KEY_SLOTS"`
	BaseReportID  int           `help:"Report ID of channel 0; channel i uses base+i" default:"16" env:"HIDMUX_BASE_REPORT_ID"`
	DefaultDevice int           `help:"Channel receiving unrouted positions" default:"4" env:"HIDMUX_DEFAULT_DEVICE"`
	Routes        []string      `help:"Position routes, pos[-pos]:channel" default:"0-17:0,18-19:1,24-25:2,30-31:3" env:"HIDMUX_ROUTES"`
	Positions     uint32        `help:"Number of matrix positions" default:"42" env:"HIDMUX_POSITIONS"`
	Activation    string        `help:"Lifecycle mode" enum:"always-on,external" default:"always-on" env:"HIDMUX_ACTIVATION"`
	KeepAlive     time.Duration `help:"Idle report retransmission interval" default:"5s" env:"HIDMUX_KEEP_ALIVE"`

	AnnounceRepeat int           `help:"Activation burst repetitions" default:"3"`
	AnnounceDelay  time.Duration `help:"Delay between activation burst batches" default:"50ms"`

	InputDevice string `help:"evdev device path (auto-detected when empty)" env:"HIDMUX_INPUT_DEVICE"`
	Layout      string `help:"Comma separated key name per position (defaults to the 42-key split layout)"`
	Grab        bool   `help:"Take the input device exclusively"`
	DryRun      bool   `help:"Do not create virtual keyboards; log reports only"`

	Uhid uhidtrans.Config `embed:"" prefix:"uhid."`
	Ctl  ctl.ServerConfig `embed:"" prefix:"ctl."`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, reportLog log.ReportLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Start(ctx, logger, reportLog)
}

// Start wires the daemon and blocks until the context is canceled or a
// component fails.
func (s *Serve) Start(ctx context.Context, logger *slog.Logger, reportLog log.ReportLogger) error {
	cfg, err := s.muxConfig()
	if err != nil {
		return err
	}

	tr, err := s.openTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if c, ok := tr.(interface{ Close() error }); ok {
		defer c.Close()
	}

	m, err := mux.New(cfg, transport.Logged(tr, reportLog), logger)
	if err != nil {
		return err
	}
	loop := mux.NewLoop(m, logger)
	loopErrCh := make(chan error, 1)
	go func() {
		loopErrCh <- loop.Run(ctx)
	}()

	ctlSrv := ctl.New(s.Ctl, logger)
	r := ctlSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("status", handler.Status(loop))
	r.Register("activate", handler.Activate(loop))
	r.Register("deactivate", handler.Deactivate(loop))
	r.Register("clear", handler.Clear(loop))
	r.Register("device/list", handler.DeviceList(loop))
	r.Register("device/{id}", handler.DeviceGet(loop))
	if err := ctlSrv.Start(); err != nil {
		return fmt.Errorf("start control API: %w", err)
	}
	defer ctlSrv.Close()

	src, err := s.openSource(logger)
	if err != nil {
		return err
	}
	srcErrCh := make(chan error, 1)
	go func() {
		srcErrCh <- src.Run(ctx)
	}()

	if cfg.Activation == mux.ActivationAlwaysOn {
		if err := loop.Announce(ctx); err != nil {
			logger.Warn("initial announce failed", "error", err)
		}
	}
	logger.Info("hidmux running",
		"devices", cfg.Devices,
		"positions", cfg.Positions,
		"activation", string(cfg.Activation))

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case err := <-loopErrCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case err := <-srcErrCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input source: %w", err)
		case ev, ok := <-src.Events():
			if !ok {
				continue
			}
			s.dispatch(ctx, loop, ev, logger)
		}
	}
}

func (s *Serve) dispatch(ctx context.Context, loop *mux.Loop, ev matrix.Event, logger *slog.Logger) {
	err := loop.Do(ctx, func(m *mux.Mux) error {
		if ev.Pressed {
			return m.PositionPress(ev.Position, ev.Key)
		}
		return m.PositionRelease(ev.Position)
	})
	switch {
	case err == nil:
	case errors.Is(err, mux.ErrInactive):
		logger.Debug("key while inactive", "position", ev.Position)
	case errors.Is(err, mux.ErrCapacityExceeded):
		logger.Warn("report full, key dropped", "position", ev.Position, "key", ev.Key)
	default:
		logger.Error("key event failed", "position", ev.Position, "error", err)
	}
}

func (s *Serve) muxConfig() (mux.Config, error) {
	routes, err := mux.ParseRoutes(s.Routes)
	if err != nil {
		return mux.Config{}, err
	}
	if s.BaseReportID < 0 || s.BaseReportID > 0xFF {
		return mux.Config{}, fmt.Errorf("base report ID %d out of range", s.BaseReportID)
	}
	return mux.Config{
		Devices:        s.Devices,
		KeySlots:       s.KeySlots,
		BaseReportID:   uint8(s.BaseReportID),
		DefaultDevice:  s.DefaultDevice,
		Routes:         routes,
		Positions:      s.Positions,
		Activation:     mux.ActivationMode(s.Activation),
		KeepAlive:      s.KeepAlive,
		AnnounceRepeat: s.AnnounceRepeat,
		AnnounceDelay:  s.AnnounceDelay,
	}, nil
}

func (s *Serve) openTransport(ctx context.Context, cfg mux.Config, logger *slog.Logger) (transport.Transport, error) {
	if s.DryRun {
		logger.Info("dry run, reports are discarded")
		return transport.Discard{}, nil
	}
	uhidCfg := s.Uhid
	uhidCfg.Devices = cfg.Devices
	uhidCfg.KeySlots = cfg.KeySlots
	uhidCfg.BaseReportID = cfg.BaseReportID
	tr, err := uhidtrans.Open(ctx, uhidCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboards: %w", err)
	}
	return tr, nil
}

func (s *Serve) openSource(logger *slog.Logger) (*matrix.Source, error) {
	layout := matrix.DefaultLayout
	if s.Layout != "" {
		var err error
		layout, err = matrix.ParseLayout(s.Layout)
		if err != nil {
			return nil, err
		}
	}
	if uint32(len(layout)) > s.Positions {
		return nil, fmt.Errorf("layout names %d positions but only %d are configured", len(layout), s.Positions)
	}

	path := s.InputDevice
	if path == "" {
		var err error
		path, err = matrix.FindKeyboard()
		if err != nil {
			return nil, err
		}
		logger.Info("auto-detected input device", "path", path)
	}
	return matrix.NewSource(path, layout, s.Grab, logger)
}
