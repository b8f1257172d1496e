// Package transport defines the boundary between the multiplexer state and
// whatever actually carries report buffers to the host. Implementations may
// be absent or disconnected at any time; a failed send is surfaced to the
// caller and never retried here, since the in-memory report state is the
// source of truth and the next mutation or keep-alive resends it.
package transport

import (
	"errors"
	"sync"
)

// ErrNotReady indicates the underlying endpoint is not connected or not yet
// enumerated. Benign and transient.
var ErrNotReady = errors.New("transport not ready")

// Transport delivers one assembled report buffer for one virtual device.
// Send returning nil means local transmission acceptance only; there is no
// host-side delivery confirmation.
type Transport interface {
	Send(device int, report []byte) error
}

// Discard drops every report. Used by dry runs where no host is attached.
type Discard struct{}

func (Discard) Send(int, []byte) error { return nil }

// Recorder is an in-memory Transport capturing everything sent, per device.
// A failure can be injected with SetFail to exercise the not-ready paths.
type Recorder struct {
	mu   sync.Mutex
	sent map[int][][]byte
	fail error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{sent: make(map[int][][]byte)}
}

// Send records a copy of the report buffer under the device index.
func (r *Recorder) Send(device int, report []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	buf := make([]byte, len(report))
	copy(buf, report)
	r.sent[device] = append(r.sent[device], buf)
	return nil
}

// SetFail makes subsequent sends return err (nil restores recording).
func (r *Recorder) SetFail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Sent returns all report buffers recorded for a device, oldest first.
func (r *Recorder) Sent(device int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.sent[device]))
	copy(out, r.sent[device])
	return out
}

// Last returns the most recent report buffer for a device, or nil.
func (r *Recorder) Last(device int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	bufs := r.sent[device]
	if len(bufs) == 0 {
		return nil
	}
	return bufs[len(bufs)-1]
}

// Count returns the total number of reports recorded across all devices.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, bufs := range r.sent {
		n += len(bufs)
	}
	return n
}
