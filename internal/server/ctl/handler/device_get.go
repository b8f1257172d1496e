package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"hidmux/hid"
	"hidmux/internal/server/ctl"
	"hidmux/mux"
)

// DeviceGet returns a handler exposing one channel's report state by index.
func DeviceGet(l *mux.Loop) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		idStr := req.Params["id"]
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return ctl.ErrBadRequest(fmt.Sprintf("invalid device index: %v", err))
		}

		var snap hid.Snapshot
		err = l.Do(req.Ctx, func(m *mux.Mux) error {
			var err error
			snap, err = m.Snapshot(id)
			return err
		})
		if err != nil {
			if errors.Is(err, mux.ErrInvalidDevice) {
				return ctl.ErrNotFound(fmt.Sprintf("device %d not found", id))
			}
			return err
		}
		return respond(res, deviceState(id, snap))
	}
}
