// Package handler contains one constructor per control API operation. Each
// returns a ctl.HandlerFunc bound to the mux loop, so every state access is
// marshaled onto the serialized execution context.
package handler

import (
	"encoding/json"

	"hidmux/ctltypes"
	"hidmux/hid"
	"hidmux/internal/server/ctl"
)

func respond(res *ctl.Response, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	res.JSON = string(b)
	return nil
}

func deviceState(device int, snap hid.Snapshot) ctltypes.DeviceState {
	held := 0
	for _, k := range snap.Keys {
		if k != hid.NoKey {
			held++
		}
	}
	return ctltypes.DeviceState{
		Device:    device,
		ReportID:  snap.ID,
		Modifiers: snap.Modifiers,
		Held:      held,
		Keys:      snap.Keys,
	}
}
