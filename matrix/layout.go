package matrix

import (
	"fmt"
	"strings"
)

// Skip marks a layout slot whose key is handled locally by the physical
// keyboard (layer switches and similar) and never forwarded.
const Skip = "-"

// Layout assigns a key name to each matrix position, in position order.
type Layout []string

// DefaultLayout is a 42-position split layout, three rows of twelve plus two
// three-key thumb clusters. Thumb layer keys are local to the keyboard.
var DefaultLayout = Layout{
	"tab", "q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "bspc",
	"lctrl", "a", "s", "d", "f", "g", "h", "j", "k", "l", "semi", "sqt",
	"lshft", "z", "x", "c", "v", "b", "n", "m", "comma", "dot", "fslh", "esc",
	"lgui", Skip, "spc",
	"ent", Skip, "ralt",
}

// ParseLayout reads a comma separated list of key names into a Layout.
// Whitespace around names is ignored; "-" keeps a position unmapped.
func ParseLayout(s string) (Layout, error) {
	parts := strings.Split(s, ",")
	layout := make(Layout, 0, len(parts))
	for i, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, fmt.Errorf("layout: empty key name at position %d", i)
		}
		if name != Skip {
			if _, _, ok := LookupKey(name); !ok {
				return nil, fmt.Errorf("layout: unknown key name %q at position %d", name, i)
			}
		}
		layout = append(layout, name)
	}
	return layout, nil
}

// mapping is the per-position resolution of a Layout: which evdev code
// triggers the position and which HID usage is forwarded for it.
type mapping struct {
	byCode map[uint16]binding
}

type binding struct {
	position uint32
	usage    uint8
}

// compile resolves every named position. Duplicate key names are rejected
// since one evdev code cannot identify two positions.
func (l Layout) compile() (*mapping, error) {
	m := &mapping{byCode: make(map[uint16]binding, len(l))}
	for i, name := range l {
		if name == Skip {
			continue
		}
		code, usage, ok := LookupKey(name)
		if !ok {
			return nil, fmt.Errorf("layout: unknown key name %q at position %d", name, i)
		}
		if prev, dup := m.byCode[code]; dup {
			return nil, fmt.Errorf("layout: key %q at position %d already used at position %d", name, i, prev.position)
		}
		m.byCode[code] = binding{position: uint32(i), usage: usage}
	}
	return m, nil
}
