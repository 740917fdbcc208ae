package timer

import (
	"sync"
	"time"

	"peerprep/interview/internal/schedule"
)

// Step applies one tick to the remaining seconds. Reaching zero, or ticking
// while already at zero, reports expiry.
func Step(remaining int) (next int, expired bool) {
	if remaining > 1 {
		return remaining - 1, false
	}
	return 0, true
}

// Clamp keeps remaining time inside [0, limit].
func Clamp(remaining, limit int) int {
	if remaining < 0 {
		return 0
	}
	if remaining > limit {
		return limit
	}
	return remaining
}

// Countdown calls a tick function once per interval until the function
// returns false or the countdown is disarmed. Each tick re-arms a single
// fixed-delay callback; there is no drift correction.
type Countdown struct {
	scheduler schedule.Scheduler
	interval  time.Duration

	mu     sync.Mutex
	gen    uint64
	handle schedule.Handle
}

func NewCountdown(scheduler schedule.Scheduler, interval time.Duration) *Countdown {
	if scheduler == nil {
		scheduler = schedule.Real()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{scheduler: scheduler, interval: interval}
}

// Arm replaces any running countdown with a new one driving tick.
func (c *Countdown) Arm(tick func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.gen++
	c.scheduleLocked(c.gen, tick)
}

// Disarm stops the pending tick, if any.
func (c *Countdown) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.gen++
}

func (c *Countdown) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

func (c *Countdown) stopLocked() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
}

func (c *Countdown) scheduleLocked(gen uint64, tick func() bool) {
	c.handle = c.scheduler.AfterFunc(c.interval, func() {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.handle = nil
		c.mu.Unlock()

		more := tick()

		c.mu.Lock()
		defer c.mu.Unlock()
		if more && c.gen == gen && c.handle == nil {
			c.scheduleLocked(gen, tick)
		}
	})
}
