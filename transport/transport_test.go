package transport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/internal/log"
	"hidmux/transport"
)

func TestRecorderCopiesReports(t *testing.T) {
	rec := transport.NewRecorder()

	buf := []byte{0x10, 0x00, 0x00, 0x04}
	require.NoError(t, rec.Send(1, buf))

	// Mutating the caller's buffer must not alter the recording.
	buf[3] = 0xFF
	require.Len(t, rec.Sent(1), 1)
	assert.Equal(t, byte(0x04), rec.Sent(1)[0][3])
	assert.Equal(t, 1, rec.Count())
}

func TestRecorderFailure(t *testing.T) {
	rec := transport.NewRecorder()
	rec.SetFail(transport.ErrNotReady)

	err := rec.Send(0, []byte{0x10, 0x00, 0x00})
	require.ErrorIs(t, err, transport.ErrNotReady)
	assert.Equal(t, 0, rec.Count())
}

func TestLoggedDecorator(t *testing.T) {
	rec := transport.NewRecorder()
	var trace bytes.Buffer
	tr := transport.Logged(rec, log.NewReportLogger(&trace))

	require.NoError(t, tr.Send(2, []byte{0x12, 0x02, 0x00, 0x1C}))

	require.Len(t, rec.Sent(2), 1)
	assert.Contains(t, trace.String(), "dev2 report: 4 bytes")
	assert.Contains(t, trace.String(), "12 02 00 1c")
}
