package hid

// Descriptor returns the HID report descriptor for one virtual keyboard
// channel. The descriptor declares the channel's report ID so a host parsing
// multiple channels through one endpoint can tell the report streams apart,
// followed by the standard modifier bitfield, a reserved byte and an array of
// key usage slots.
//
// The key array is an Input(Data,Array) item: each slot carries a full usage
// code, matching the wire layout produced by Report.BuildReport.
func Descriptor(reportID uint8, slots int) []byte {
	if slots <= 0 {
		slots = DefaultKeySlots
	}
	return []byte{
		0x05, 0x01, // Usage Page (Generic Desktop)
		0x09, 0x06, // Usage (Keyboard)
		0xA1, 0x01, // Collection (Application)
		0x85, reportID, //   Report ID

		// Modifiers (8 bits)
		0x05, 0x07, //   Usage Page (Keyboard/Keypad)
		0x19, 0xE0, //   Usage Minimum (Left Control)
		0x29, 0xE7, //   Usage Maximum (Right GUI)
		0x15, 0x00, //   Logical Minimum (0)
		0x25, 0x01, //   Logical Maximum (1)
		0x75, 0x01, //   Report Size (1)
		0x95, 0x08, //   Report Count (8)
		0x81, 0x02, //   Input (Data, Var, Abs)

		// Reserved byte
		0x75, 0x08, //   Report Size (8)
		0x95, 0x01, //   Report Count (1)
		0x81, 0x01, //   Input (Const)

		// Key slot array
		0x05, 0x07, //   Usage Page (Keyboard/Keypad)
		0x19, 0x00, //   Usage Minimum (0)
		0x29, 0xFF, //   Usage Maximum (255)
		0x15, 0x00, //   Logical Minimum (0)
		0x26, 0xFF, 0x00, //   Logical Maximum (255)
		0x75, 0x08, //   Report Size (8)
		0x95, uint8(slots), //   Report Count
		0x81, 0x00, //   Input (Data, Array)

		0xC0, // End Collection
	}
}
