package hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/hid"
)

func TestPressIdempotent(t *testing.T) {
	r := hid.NewReport(0x10, 6)

	require.NoError(t, r.Press(hid.KeyA))
	require.NoError(t, r.Press(hid.KeyA))

	assert.Equal(t, 1, r.Held())
	assert.Equal(t, []uint8{hid.KeyA, 0, 0, 0, 0, 0}, r.Snapshot().Keys)
}

func TestPressCapacity(t *testing.T) {
	r := hid.NewReport(0x10, 4)

	keys := []uint8{hid.KeyA, hid.KeyB, hid.KeyC, hid.KeyD}
	for _, k := range keys {
		require.NoError(t, r.Press(k))
	}

	err := r.Press(hid.KeyE)
	require.ErrorIs(t, err, hid.ErrNoFreeSlot)

	// The first four keys are untouched by the failed press.
	assert.Equal(t, keys, r.Snapshot().Keys)

	// A key already held still succeeds at full capacity.
	assert.NoError(t, r.Press(hid.KeyB))
}

func TestReleaseCompacts(t *testing.T) {
	tests := []struct {
		name     string
		press    []uint8
		release  []uint8
		expected []uint8
	}{
		{
			name:     "release head shifts remaining left",
			press:    []uint8{hid.KeyA, hid.KeyB, hid.KeyC},
			release:  []uint8{hid.KeyA},
			expected: []uint8{hid.KeyB, hid.KeyC, 0, 0, 0, 0},
		},
		{
			name:     "release middle preserves order",
			press:    []uint8{hid.KeyA, hid.KeyB, hid.KeyC, hid.KeyD},
			release:  []uint8{hid.KeyB},
			expected: []uint8{hid.KeyA, hid.KeyC, hid.KeyD, 0, 0, 0},
		},
		{
			name:     "release tail",
			press:    []uint8{hid.KeyA, hid.KeyB},
			release:  []uint8{hid.KeyB},
			expected: []uint8{hid.KeyA, 0, 0, 0, 0, 0},
		},
		{
			name:     "release everything",
			press:    []uint8{hid.KeyA, hid.KeyB},
			release:  []uint8{hid.KeyA, hid.KeyB},
			expected: []uint8{0, 0, 0, 0, 0, 0},
		},
		{
			name:     "release unknown key is a no-op",
			press:    []uint8{hid.KeyA},
			release:  []uint8{hid.KeyZ},
			expected: []uint8{hid.KeyA, 0, 0, 0, 0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := hid.NewReport(0x10, 6)
			for _, k := range tc.press {
				require.NoError(t, r.Press(k))
			}
			for _, k := range tc.release {
				r.Release(k)
			}
			assert.Equal(t, tc.expected, r.Snapshot().Keys)
		})
	}
}

func TestReleaseUnknownLeavesReportUnchanged(t *testing.T) {
	r := hid.NewReport(0x12, 18)
	require.NoError(t, r.Press(hid.KeyH))
	r.SetModifiers(hid.ModLeftShift)

	before := r.BuildReport()
	r.Release(hid.KeyJ)

	assert.Equal(t, before, r.BuildReport())
}

func TestCompactionInvariant(t *testing.T) {
	r := hid.NewReport(0x10, 8)

	// Interleaved presses and releases must never leave a gap before the
	// last held key.
	ops := []struct {
		press bool
		key   uint8
	}{
		{true, hid.KeyA}, {true, hid.KeyB}, {true, hid.KeyC},
		{false, hid.KeyB},
		{true, hid.KeyD}, {true, hid.KeyE},
		{false, hid.KeyA}, {false, hid.KeyE},
		{true, hid.KeyF},
	}
	for _, op := range ops {
		if op.press {
			require.NoError(t, r.Press(op.key))
		} else {
			r.Release(op.key)
		}
	}

	keys := r.Snapshot().Keys
	seenSentinel := false
	for _, k := range keys {
		if k == hid.NoKey {
			seenSentinel = true
		} else {
			assert.False(t, seenSentinel, "held key after sentinel gap: %v", keys)
		}
	}
	assert.Equal(t, []uint8{hid.KeyC, hid.KeyD, hid.KeyF}, keys[:3])
}

func TestModifiers(t *testing.T) {
	r := hid.NewReport(0x10, 6)

	r.SetModifiers(hid.ModLeftCtrl)
	r.SetModifiers(hid.ModRightShift)
	assert.Equal(t, uint8(hid.ModLeftCtrl|hid.ModRightShift), r.Modifiers())

	r.ClearModifiers(hid.ModLeftCtrl)
	assert.Equal(t, uint8(hid.ModRightShift), r.Modifiers())

	// Clearing a bit that is not set leaves the rest alone.
	r.ClearModifiers(hid.ModLeftAlt)
	assert.Equal(t, uint8(hid.ModRightShift), r.Modifiers())
}

func TestBuildReport(t *testing.T) {
	r := hid.NewReport(0x13, 18)
	require.NoError(t, r.Press(hid.KeyN))
	require.NoError(t, r.Press(hid.KeyM))
	r.SetModifiers(hid.ModLeftShift)

	b := r.BuildReport()
	require.Len(t, b, hid.ReportHeaderSize+18)

	assert.Equal(t, uint8(0x13), b[0], "report ID")
	assert.Equal(t, uint8(hid.ModLeftShift), b[1], "modifiers")
	assert.Equal(t, uint8(0x00), b[2], "reserved")
	assert.Equal(t, uint8(hid.KeyN), b[3])
	assert.Equal(t, uint8(hid.KeyM), b[4])
	for i := 5; i < len(b); i++ {
		assert.Equal(t, hid.NoKey, b[i], "slot %d", i-hid.ReportHeaderSize)
	}
}

func TestResetClearsKeysAndModifiers(t *testing.T) {
	r := hid.NewReport(0x10, 6)
	require.NoError(t, r.Press(hid.KeyA))
	r.SetModifiers(hid.ModLeftGUI)

	r.Reset()

	assert.Zero(t, r.Modifiers())
	assert.Equal(t, 0, r.Held())
}

func TestDescriptorCarriesReportIDAndSlots(t *testing.T) {
	d := hid.Descriptor(0x14, 18)

	// Report ID item is 0x85 followed by the ID.
	found := false
	for i := 0; i+1 < len(d); i++ {
		if d[i] == 0x85 && d[i+1] == 0x14 {
			found = true
			break
		}
	}
	assert.True(t, found, "descriptor missing report ID item")
	assert.Equal(t, uint8(0xC0), d[len(d)-1], "descriptor not terminated")
}
