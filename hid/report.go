// Package hid implements the per-channel keyboard report state for the
// virtual keyboards exposed by hidmux. Each report keeps a modifier bitmask
// and a fixed number of ordered key slots, matching the boot-style keyboard
// report layout but with a per-channel report ID and a wider key array.
package hid

import "errors"

// ErrNoFreeSlot is returned by Press when every key slot on the report
// already holds a distinct key. The press is dropped; rollover capacity is a
// deliberate per-channel limit, not shared across channels.
var ErrNoFreeSlot = errors.New("all key slots occupied")

const (
	// DefaultKeySlots is the rollover capacity of one virtual keyboard.
	DefaultKeySlots = 18

	// NoKey is the sentinel usage code marking an empty key slot.
	NoKey uint8 = 0x00

	// ReportHeaderSize is the number of bytes preceding the key slots on the
	// wire: report ID, modifiers, reserved.
	ReportHeaderSize = 3
)

// Report holds the input report state of one virtual keyboard channel.
//
// Key slots preserve insertion order among held keys and are kept
// left-compacted: there is never a sentinel gap before the last held key.
// A key appears at most once. All mutations are O(slots) linear scans; the
// slot count is small enough that this beats any set structure, and slot
// order is part of the host-visible contract.
//
// Report is not safe for concurrent use; callers serialize access.
type Report struct {
	id        uint8
	modifiers uint8
	keys      []uint8
}

// Snapshot is a copy of a Report's externally visible state.
type Snapshot struct {
	ID        uint8
	Modifiers uint8
	Keys      []uint8
}

// NewReport returns an empty report with the given report ID and key slot
// capacity. A non-positive slot count falls back to DefaultKeySlots.
func NewReport(id uint8, slots int) *Report {
	if slots <= 0 {
		slots = DefaultKeySlots
	}
	return &Report{id: id, keys: make([]uint8, slots)}
}

// ID returns the report ID distinguishing this channel on the wire.
func (r *Report) ID() uint8 { return r.id }

// Modifiers returns the current modifier bitmask.
func (r *Report) Modifiers() uint8 { return r.modifiers }

// Slots returns the key slot capacity.
func (r *Report) Slots() int { return len(r.keys) }

// Held returns the number of keys currently held.
func (r *Report) Held() int {
	n := 0
	for _, k := range r.keys {
		if k != NoKey {
			n++
		}
	}
	return n
}

// Has reports whether key occupies a slot.
func (r *Report) Has(key uint8) bool {
	for _, k := range r.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Press records key in the first free slot. Pressing a key that is already
// held is a no-op success. Returns ErrNoFreeSlot when all slots are taken.
func (r *Report) Press(key uint8) error {
	for i, k := range r.keys {
		if k == key {
			return nil // already held
		}
		if k == NoKey {
			r.keys[i] = key
			return nil
		}
	}
	return ErrNoFreeSlot
}

// Release removes key and left-shifts the remaining slots so held keys stay
// compacted at the front in their original order. Releasing a key that is
// not held is a no-op.
func (r *Report) Release(key uint8) {
	for i, k := range r.keys {
		if k != key {
			continue
		}
		copy(r.keys[i:], r.keys[i+1:])
		r.keys[len(r.keys)-1] = NoKey
		return
	}
}

// Clear empties every key slot. Modifiers are left untouched.
func (r *Report) Clear() {
	for i := range r.keys {
		r.keys[i] = NoKey
	}
}

// Reset empties the key slots and the modifier bitmask.
func (r *Report) Reset() {
	r.Clear()
	r.modifiers = 0
}

// SetModifiers ORs mask into the modifier bitmask.
func (r *Report) SetModifiers(mask uint8) { r.modifiers |= mask }

// ClearModifiers clears the bits of mask from the modifier bitmask.
func (r *Report) ClearModifiers(mask uint8) { r.modifiers &^= mask }

// BuildReport encodes the report into its fixed-size wire form.
//
// Layout (ReportHeaderSize + slots bytes):
//
//	Byte 0: Report ID
//	Byte 1: Modifiers
//	Byte 2: Reserved (0x00)
//	Bytes 3..: Key slots, left-compacted, NoKey padded
func (r *Report) BuildReport() []byte {
	b := make([]byte, ReportHeaderSize+len(r.keys))
	b[0] = r.id
	b[1] = r.modifiers
	b[2] = 0x00 // Reserved
	copy(b[ReportHeaderSize:], r.keys)
	return b
}

// Snapshot returns a copy of the report state for inspection.
func (r *Report) Snapshot() Snapshot {
	keys := make([]uint8, len(r.keys))
	copy(keys, r.keys)
	return Snapshot{ID: r.id, Modifiers: r.modifiers, Keys: keys}
}
