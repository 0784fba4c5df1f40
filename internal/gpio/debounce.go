package gpio

import "time"

// Debouncer enforces a minimum interval between accepted presses.
type Debouncer struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Accept reports whether a press at now is a new press. Rejected presses do
// not extend the window.
func (d *Debouncer) Accept(now time.Time) bool {
	if d.fired && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	d.fired = true
	return true
}
