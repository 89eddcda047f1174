package utils

import "time"

// DeltaTimer measures the time between consecutive frames.
type DeltaTimer struct {
	last time.Time
	now  func() time.Time
}

// Next returns the time since the previous call, or 0 on the first call.
func (d *DeltaTimer) Next() time.Duration {
	// acquire timestamp exactly once to ensure we're not accumulating error
	now := d.clock()

	defer func() { d.last = now }()
	if d.last.IsZero() {
		return 0
	}
	return now.Sub(d.last)
}

func (d *DeltaTimer) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}
