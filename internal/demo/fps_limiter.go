package demo

import (
	"g2d/internal/config"
	"time"
)

// spinWindow is how close to the deadline Wait stops sleeping and polls.
const spinWindow = 200 * time.Microsecond

// FrameLimiter paces the demo loop to the window's frame rate.
type FrameLimiter struct {
	period   time.Duration
	deadline time.Time
}

// NewFrameLimiter paces frames at w.FPS. A rate of zero or less never waits.
func NewFrameLimiter(w config.Window) *FrameLimiter {
	f := &FrameLimiter{}
	if w.FPS > 0 {
		f.period = time.Second / time.Duration(w.FPS)
	}
	return f
}

// Period is the frame budget, zero when unlimited.
func (f *FrameLimiter) Period() time.Duration { return f.period }

// Wait blocks until the current frame's deadline. Deadlines advance by a
// fixed period so short frames do not accumulate drift; after a stall longer
// than one period the schedule restarts from now.
func (f *FrameLimiter) Wait() {
	if f.period == 0 {
		return
	}
	now := time.Now()
	if f.deadline.IsZero() || now.Sub(f.deadline) > f.period {
		f.deadline = now
	}
	f.deadline = f.deadline.Add(f.period)

	for {
		left := time.Until(f.deadline)
		if left <= 0 {
			return
		}
		if left > spinWindow {
			time.Sleep(left - spinWindow)
		}
	}
}
