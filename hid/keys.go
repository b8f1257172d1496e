package hid

// Modifier key bitmasks
const (
	ModLeftCtrl   = 0x01
	ModLeftShift  = 0x02
	ModLeftAlt    = 0x04
	ModLeftGUI    = 0x08 // Windows/Command key
	ModRightCtrl  = 0x10
	ModRightShift = 0x20
	ModRightAlt   = 0x40
	ModRightGUI   = 0x80
)

// HID Usage codes for keyboard keys (USB HID Keyboard/Keypad usage page)
const (
	// Letters A-Z
	KeyA = 0x04
	KeyB = 0x05
	KeyC = 0x06
	KeyD = 0x07
	KeyE = 0x08
	KeyF = 0x09
	KeyG = 0x0A
	KeyH = 0x0B
	KeyI = 0x0C
	KeyJ = 0x0D
	KeyK = 0x0E
	KeyL = 0x0F
	KeyM = 0x10
	KeyN = 0x11
	KeyO = 0x12
	KeyP = 0x13
	KeyQ = 0x14
	KeyR = 0x15
	KeyS = 0x16
	KeyT = 0x17
	KeyU = 0x18
	KeyV = 0x19
	KeyW = 0x1A
	KeyX = 0x1B
	KeyY = 0x1C
	KeyZ = 0x1D

	// Numbers 1-0 (top row)
	Key1 = 0x1E
	Key2 = 0x1F
	Key3 = 0x20
	Key4 = 0x21
	Key5 = 0x22
	Key6 = 0x23
	Key7 = 0x24
	Key8 = 0x25
	Key9 = 0x26
	Key0 = 0x27

	// Special keys
	KeyEnter      = 0x28
	KeyEscape     = 0x29
	KeyBackspace  = 0x2A
	KeyTab        = 0x2B
	KeySpace      = 0x2C
	KeyMinus      = 0x2D // - and _
	KeyEqual      = 0x2E // = and +
	KeyLeftBrace  = 0x2F // [ and {
	KeyRightBrace = 0x30 // ] and }
	KeyBackslash  = 0x31 // \ and |
	KeySemicolon  = 0x33 // ; and :
	KeyApostrophe = 0x34 // ' and "
	KeyGrave      = 0x35 // ` and ~
	KeyComma      = 0x36 // , and <
	KeyDot        = 0x37 // . and >
	KeySlash      = 0x38 // / and ?
	KeyCapsLock   = 0x39

	// Function keys
	KeyF1  = 0x3A
	KeyF2  = 0x3B
	KeyF3  = 0x3C
	KeyF4  = 0x3D
	KeyF5  = 0x3E
	KeyF6  = 0x3F
	KeyF7  = 0x40
	KeyF8  = 0x41
	KeyF9  = 0x42
	KeyF10 = 0x43
	KeyF11 = 0x44
	KeyF12 = 0x45

	// Navigation
	KeyInsert   = 0x49
	KeyHome     = 0x4A
	KeyPageUp   = 0x4B
	KeyDelete   = 0x4C
	KeyEnd      = 0x4D
	KeyPageDown = 0x4E
	KeyRight    = 0x4F
	KeyLeft     = 0x50
	KeyDown     = 0x51
	KeyUp       = 0x52

	// Modifier keys as usages (0xE0-0xE7)
	KeyLeftCtrl   = 0xE0
	KeyLeftShift  = 0xE1
	KeyLeftAlt    = 0xE2
	KeyLeftGUI    = 0xE3
	KeyRightCtrl  = 0xE4
	KeyRightShift = 0xE5
	KeyRightAlt   = 0xE6
	KeyRightGUI   = 0xE7
)
