package handler

import (
	"log/slog"

	"hidmux/ctltypes"
	"hidmux/internal/server/ctl"
	"hidmux/mux"
)

// Clear returns a handler emptying every channel's report, transmitting the
// all-keys-up state. Works regardless of activation.
func Clear(l *mux.Loop) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		devices := 0
		err := l.Do(req.Ctx, func(m *mux.Mux) error {
			devices = m.Devices()
			return m.ClearAll()
		})
		if err != nil {
			return err
		}
		return respond(res, ctltypes.ClearResponse{Devices: devices})
	}
}
