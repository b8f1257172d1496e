package handler

import (
	"errors"
	"log/slog"

	"hidmux/ctltypes"
	"hidmux/internal/server/ctl"
	"hidmux/mux"
)

// Activate returns a handler carrying the external activation signal. The
// transition clears and re-announces every channel.
func Activate(l *mux.Loop) ctl.HandlerFunc {
	return setActive(l, true)
}

// Deactivate returns a handler switching the multiplexer off. Rejected with
// a conflict when the multiplexer is configured always-on.
func Deactivate(l *mux.Loop) ctl.HandlerFunc {
	return setActive(l, false)
}

func setActive(l *mux.Loop, active bool) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		if err := l.SetActive(req.Ctx, active); err != nil {
			if errors.Is(err, mux.ErrAlwaysOn) {
				return ctl.ErrConflict(err.Error())
			}
			return err
		}
		return respond(res, ctltypes.ActiveResponse{Active: active})
	}
}
