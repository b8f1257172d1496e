package mux

// DeviceForPosition resolves the virtual device index owning a key position.
// Pure and total: any position without an explicit route, including one past
// the tracked range, lands on the default device. Press and release of the
// same position always resolve identically because the table never changes
// after construction.
func (c Config) DeviceForPosition(position uint32) int {
	if dev, ok := c.Routes[position]; ok {
		return dev
	}
	return c.DefaultDevice
}
