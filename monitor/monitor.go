// Package monitor repeatedly polls known wireless interfaces over the
// nl80211 Operation Layer and reports which Cards changed or disappeared
// since the previous round.
//
// Grounded on the teacher's collector.Run: a ticker-bound loop, a bounded
// or infinite repetition count, and a stats line logged every so many
// loops. Unlike the teacher's collector, this never subscribes to a
// multicast netlink group — every round is an ordinary dump request on
// the caller's own Handle (spec §1 non-goal: "no event subscription to
// nl80211 multicast groups").
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/wifinl/nl80211ctl/cache"
	"github.com/wifinl/nl80211ctl/metrics"
	"github.com/wifinl/nl80211ctl/wifi"
)

// Change describes one Card whose identity changed, or vanished, between
// two polling rounds.
type Change struct {
	Device    string
	Card      wifi.Card
	Vanished  bool
	Timestamp time.Time
}

// Run polls h.Interfaces() every interval, for reps rounds (0 means run
// until ctx is done), and sends one Change per device that changed or
// vanished to out. Run closes out before returning.
func Run(ctx context.Context, h *wifi.Handle, interval time.Duration, reps int, out chan<- Change) error {
	defer close(out)

	c := cache.NewCache()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pollErrors int
	var lastPoll time.Time
	loops := 0
	for loops = 0; (reps == 0 || loops < reps) && ctx.Err() == nil; loops++ {
		ts := time.Now()
		if !lastPoll.IsZero() {
			metrics.PollingHistogram.Observe(ts.Sub(lastPoll).Seconds())
		}
		lastPoll = ts

		devices, err := h.Interfaces()
		if err != nil {
			log.Println("monitor: poll failed:", err)
			pollErrors++
		} else {
			metrics.InterfaceCountHistogram.Observe(float64(len(devices)))
			for _, dev := range devices {
				if changed, ok := c.Update(dev.Card); ok && changed {
					out <- Change{Device: dev.Card.Device, Card: dev.Card, Timestamp: ts}
				}
			}
			for _, vanished := range c.EndCycle() {
				out <- Change{Device: vanished, Vanished: true, Timestamp: ts}
			}
		}

		if loops%60 == 0 {
			log.Println("monitor:", loops, "rounds,", pollErrors, "poll errors,", c.CycleCount(), "cycles")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
