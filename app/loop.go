package app

import "time"

// After a stall (debugger, window drag, wake from sleep) a raw delta can
// be seconds long; physics and transitions would lurch. Cap it instead.
const maxFrameDelta = 1.0 / 10.0

// Clock measures frame time on the monotonic clock and owns the pause
// state. While paused, Tick reports a zero delta and elapsed time holds
// still, so animations freeze instead of jumping when the window comes
// back.
type Clock struct {
	last    time.Time
	paused  bool
	elapsed float64
}

func NewClock() *Clock {
	return &Clock{last: time.Now()}
}

// Tick returns the clamped delta since the previous call and the total
// running time, both in seconds.
func (c *Clock) Tick() (dt, t float64) {
	now := time.Now()
	if c.paused {
		c.last = now
		return 0, c.elapsed
	}
	dt = now.Sub(c.last).Seconds()
	c.last = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}
	c.elapsed += dt
	return dt, c.elapsed
}

func (c *Clock) Pause()  { c.paused = true }
func (c *Clock) Resume() { c.paused = false; c.last = time.Now() }

func (c *Clock) Paused() bool { return c.paused }

// Elapsed returns total unpaused running time in seconds.
func (c *Clock) Elapsed() float64 { return c.elapsed }
