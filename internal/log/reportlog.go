package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// ReportLogger traces raw HID report buffers with optional file output.
type ReportLogger interface {
	Log(device int, report []byte)
}

// reportLogger implements ReportLogger with a thread-safe writer.
type reportLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewReportLogger creates a ReportLogger writing one line per report.
// If w is nil the logger is a no-op.
func NewReportLogger(w io.Writer) ReportLogger {
	return &reportLogger{w: w}
}

// Log emits a single line with timestamp, device index and a hex dump of the
// report buffer as it was handed to the transport.
func (r *reportLogger) Log(device int, report []byte) {
	if r.w == nil || len(report) == 0 {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range report {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s dev%d report: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		device,
		len(report),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
