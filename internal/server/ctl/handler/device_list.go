package handler

import (
	"log/slog"

	"hidmux/ctltypes"
	"hidmux/internal/server/ctl"
	"hidmux/mux"
)

// DeviceList returns a handler listing every channel's current report state.
func DeviceList(l *mux.Loop) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		var states []ctltypes.DeviceState
		err := l.Do(req.Ctx, func(m *mux.Mux) error {
			for i := 0; i < m.Devices(); i++ {
				snap, err := m.Snapshot(i)
				if err != nil {
					return err
				}
				states = append(states, deviceState(i, snap))
			}
			return nil
		})
		if err != nil {
			return err
		}
		return respond(res, ctltypes.DevicesListResponse{Devices: states})
	}
}
