package game

import "time"

// Cooldown is a deadline on the simulation clock tagged with the session
// epoch it was armed in. A timer from an older epoch is inert, so a new game
// never inherits a pending cooldown.
type Cooldown struct {
	ReadyAt time.Duration
	Epoch   uint64
}

// Ready reports whether the gated action may fire at now.
func (c Cooldown) Ready(now time.Duration, epoch uint64) bool {
	return c.Epoch != epoch || now >= c.ReadyAt
}

// Fire arms the timer for d from now.
func (c *Cooldown) Fire(now, d time.Duration, epoch uint64) {
	c.ReadyAt = now + d
	c.Epoch = epoch
}

// Remaining returns how long until the timer is ready, zero if it already is.
func (c Cooldown) Remaining(now time.Duration, epoch uint64) time.Duration {
	if c.Ready(now, epoch) {
		return 0
	}
	return c.ReadyAt - now
}
