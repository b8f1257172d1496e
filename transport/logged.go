package transport

import "hidmux/internal/log"

// Logged wraps t so every buffer handed to it is also written to the raw
// report logger, whether or not the send succeeds.
func Logged(t Transport, raw log.ReportLogger) Transport {
	return logged{t: t, raw: raw}
}

type logged struct {
	t   Transport
	raw log.ReportLogger
}

func (l logged) Send(device int, report []byte) error {
	l.raw.Log(device, report)
	return l.t.Send(device, report)
}
