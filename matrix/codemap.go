package matrix

import (
	evdev "github.com/gvalkov/golang-evdev"

	"hidmux/hid"
)

// keyDef ties a layout key name to the evdev code produced by the physical
// keyboard and the HID usage forwarded to the virtual device.
type keyDef struct {
	code  uint16
	usage uint8
}

var keyDefs = map[string]keyDef{
	"a": {evdev.KEY_A, hid.KeyA},
	"b": {evdev.KEY_B, hid.KeyB},
	"c": {evdev.KEY_C, hid.KeyC},
	"d": {evdev.KEY_D, hid.KeyD},
	"e": {evdev.KEY_E, hid.KeyE},
	"f": {evdev.KEY_F, hid.KeyF},
	"g": {evdev.KEY_G, hid.KeyG},
	"h": {evdev.KEY_H, hid.KeyH},
	"i": {evdev.KEY_I, hid.KeyI},
	"j": {evdev.KEY_J, hid.KeyJ},
	"k": {evdev.KEY_K, hid.KeyK},
	"l": {evdev.KEY_L, hid.KeyL},
	"m": {evdev.KEY_M, hid.KeyM},
	"n": {evdev.KEY_N, hid.KeyN},
	"o": {evdev.KEY_O, hid.KeyO},
	"p": {evdev.KEY_P, hid.KeyP},
	"q": {evdev.KEY_Q, hid.KeyQ},
	"r": {evdev.KEY_R, hid.KeyR},
	"s": {evdev.KEY_S, hid.KeyS},
	"t": {evdev.KEY_T, hid.KeyT},
	"u": {evdev.KEY_U, hid.KeyU},
	"v": {evdev.KEY_V, hid.KeyV},
	"w": {evdev.KEY_W, hid.KeyW},
	"x": {evdev.KEY_X, hid.KeyX},
	"y": {evdev.KEY_Y, hid.KeyY},
	"z": {evdev.KEY_Z, hid.KeyZ},

	"1": {evdev.KEY_1, hid.Key1},
	"2": {evdev.KEY_2, hid.Key2},
	"3": {evdev.KEY_3, hid.Key3},
	"4": {evdev.KEY_4, hid.Key4},
	"5": {evdev.KEY_5, hid.Key5},
	"6": {evdev.KEY_6, hid.Key6},
	"7": {evdev.KEY_7, hid.Key7},
	"8": {evdev.KEY_8, hid.Key8},
	"9": {evdev.KEY_9, hid.Key9},
	"0": {evdev.KEY_0, hid.Key0},

	"ent":   {evdev.KEY_ENTER, hid.KeyEnter},
	"esc":   {evdev.KEY_ESC, hid.KeyEscape},
	"bspc":  {evdev.KEY_BACKSPACE, hid.KeyBackspace},
	"tab":   {evdev.KEY_TAB, hid.KeyTab},
	"spc":   {evdev.KEY_SPACE, hid.KeySpace},
	"minus": {evdev.KEY_MINUS, hid.KeyMinus},
	"equal": {evdev.KEY_EQUAL, hid.KeyEqual},
	"lbkt":  {evdev.KEY_LEFTBRACE, hid.KeyLeftBrace},
	"rbkt":  {evdev.KEY_RIGHTBRACE, hid.KeyRightBrace},
	"bslh":  {evdev.KEY_BACKSLASH, hid.KeyBackslash},
	"semi":  {evdev.KEY_SEMICOLON, hid.KeySemicolon},
	"sqt":   {evdev.KEY_APOSTROPHE, hid.KeyApostrophe},
	"grave": {evdev.KEY_GRAVE, hid.KeyGrave},
	"comma": {evdev.KEY_COMMA, hid.KeyComma},
	"dot":   {evdev.KEY_DOT, hid.KeyDot},
	"fslh":  {evdev.KEY_SLASH, hid.KeySlash},
	"caps":  {evdev.KEY_CAPSLOCK, hid.KeyCapsLock},

	"f1":  {evdev.KEY_F1, hid.KeyF1},
	"f2":  {evdev.KEY_F2, hid.KeyF2},
	"f3":  {evdev.KEY_F3, hid.KeyF3},
	"f4":  {evdev.KEY_F4, hid.KeyF4},
	"f5":  {evdev.KEY_F5, hid.KeyF5},
	"f6":  {evdev.KEY_F6, hid.KeyF6},
	"f7":  {evdev.KEY_F7, hid.KeyF7},
	"f8":  {evdev.KEY_F8, hid.KeyF8},
	"f9":  {evdev.KEY_F9, hid.KeyF9},
	"f10": {evdev.KEY_F10, hid.KeyF10},
	"f11": {evdev.KEY_F11, hid.KeyF11},
	"f12": {evdev.KEY_F12, hid.KeyF12},

	"right": {evdev.KEY_RIGHT, hid.KeyRight},
	"left":  {evdev.KEY_LEFT, hid.KeyLeft},
	"down":  {evdev.KEY_DOWN, hid.KeyDown},
	"up":    {evdev.KEY_UP, hid.KeyUp},
	"home":  {evdev.KEY_HOME, hid.KeyHome},
	"end":   {evdev.KEY_END, hid.KeyEnd},
	"pgup":  {evdev.KEY_PAGEUP, hid.KeyPageUp},
	"pgdn":  {evdev.KEY_PAGEDOWN, hid.KeyPageDown},
	"del":   {evdev.KEY_DELETE, hid.KeyDelete},
	"ins":   {evdev.KEY_INSERT, hid.KeyInsert},

	"lctrl": {evdev.KEY_LEFTCTRL, hid.KeyLeftCtrl},
	"lshft": {evdev.KEY_LEFTSHIFT, hid.KeyLeftShift},
	"lalt":  {evdev.KEY_LEFTALT, hid.KeyLeftAlt},
	"lgui":  {evdev.KEY_LEFTMETA, hid.KeyLeftGUI},
	"rctrl": {evdev.KEY_RIGHTCTRL, hid.KeyRightCtrl},
	"rshft": {evdev.KEY_RIGHTSHIFT, hid.KeyRightShift},
	"ralt":  {evdev.KEY_RIGHTALT, hid.KeyRightAlt},
	"rgui":  {evdev.KEY_RIGHTMETA, hid.KeyRightGUI},
}

// LookupKey resolves a layout key name. The bool reports whether the name is
// known; the skip marker handled by ParseLayout never reaches here.
func LookupKey(name string) (code uint16, usage uint8, ok bool) {
	d, ok := keyDefs[name]
	return d.code, d.usage, ok
}
