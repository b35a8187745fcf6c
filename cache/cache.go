// Package cache tracks whether a held wifi.Card Record still matches the
// live interface it was taken from (spec §3 "Card Record": "A record is
// valid only for as long as the underlying interface continues to exist
// unchanged; validity is re-established by looking up the device name and
// comparing the returned record to the held one").
//
// Grounded on the teacher's cache.Cache: current/previous generation maps
// plus an Update/EndCycle cycle, applied here to Card identity instead of
// TCP connection inodes.
package cache

import (
	"github.com/wifinl/nl80211ctl/metrics"
	"github.com/wifinl/nl80211ctl/wifi"
)

// Cache is NOT threadsafe, matching the teacher's cache.Cache.
type Cache struct {
	// current and previous are keyed by device name, the stable handle a
	// caller re-looks-up a Card by (spec §3).
	current  map[string]wifi.Card
	previous map[string]wifi.Card
	cycles   int64
}

// NewCache creates a cache with capacity for 16 cards, adjusted on every
// cycle as the teacher's does for connection counts.
func NewCache() *Cache {
	return &Cache{
		current:  make(map[string]wifi.Card, 16),
		previous: make(map[string]wifi.Card, 0),
	}
}

// Update records card as the current-cycle observation for its device
// name and reports whether it differs from the held record of the
// previous cycle (i.e. the interface changed phy or ifindex underneath the
// same name — spec §3 "comparing the returned record to the held one").
// ok is false when there was no previous-cycle record to compare against.
func (c *Cache) Update(card wifi.Card) (changed bool, ok bool) {
	c.current[card.Device] = card
	prev, found := c.previous[card.Device]
	if !found {
		return false, false
	}
	return !card.Equal(prev), true
}

// EndCycle marks the completion of one polling round. It returns the
// device names present in the previous cycle but absent from this one —
// interfaces that disappeared.
func (c *Cache) EndCycle() []string {
	var vanished []string
	for name := range c.previous {
		if _, ok := c.current[name]; !ok {
			vanished = append(vanished, name)
		}
	}
	c.previous = c.current
	c.current = make(map[string]wifi.Card, len(c.previous)+len(c.previous)/10+1)
	c.cycles++
	metrics.CacheSizeHistogram.Observe(float64(len(c.previous)))
	return vanished
}

// CycleCount returns the number of times EndCycle has been called.
func (c *Cache) CycleCount() int64 {
	return c.cycles
}
