package handler

import (
	"log/slog"

	"hidmux/ctltypes"
	"hidmux/internal/server/ctl"
	"hidmux/mux"
)

// Status returns a handler reporting activation state and the configured
// geometry of the multiplexer.
func Status(l *mux.Loop) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		var status ctltypes.StatusResponse
		err := l.Do(req.Ctx, func(m *mux.Mux) error {
			cfg := m.Config()
			status = ctltypes.StatusResponse{
				Active:    m.Active(),
				Devices:   cfg.Devices,
				KeySlots:  cfg.KeySlots,
				Positions: cfg.Positions,
				KeepAlive: cfg.KeepAlive.String(),
			}
			return nil
		})
		if err != nil {
			return err
		}
		return respond(res, status)
	}
}
