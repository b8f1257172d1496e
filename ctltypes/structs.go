// Package ctltypes defines the request and response structures of the
// hidmuxd control protocol. Shared by the server handlers and the client so
// both sides agree on the wire shapes.
package ctltypes

import "fmt"

// Error is the problem-json style error body returned for any failed
// control request.
type Error struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e Error) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// DeviceState is one virtual keyboard channel's current report.
type DeviceState struct {
	Device    int     `json:"device"`
	ReportID  uint8   `json:"reportId"`
	Modifiers uint8   `json:"modifiers"`
	Held      int     `json:"held"`
	Keys      []uint8 `json:"keys"`
}

type StatusResponse struct {
	Active    bool   `json:"active"`
	Devices   int    `json:"devices"`
	KeySlots  int    `json:"keySlots"`
	Positions uint32 `json:"positions"`
	KeepAlive string `json:"keepAlive"`
}

type DevicesListResponse struct {
	Devices []DeviceState `json:"devices"`
}

type ActiveResponse struct {
	Active bool `json:"active"`
}

type ClearResponse struct {
	Devices int `json:"devices"`
}
