package handler

import (
	"log/slog"

	"hidmux/ctltypes"
	"hidmux/internal/server/ctl"
)

// Ping returns a handler answering with server identity and version.
func Ping() ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		return respond(res, ctltypes.PingResponse{Server: "hidmuxd", Version: ctl.Version})
	}
}
