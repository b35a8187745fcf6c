package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/wifinl/nl80211ctl/netlink"
	"github.com/wifinl/nl80211ctl/nl80211"
	"github.com/wifinl/nl80211ctl/wifi"
)

// roundRobinConn answers every dump request with the next queued round of
// interface snapshots, cycling once exhausted — enough for Run's
// fixed-reps polling loop without a live kernel.
type roundRobinConn struct {
	rounds [][]*netlink.Message
	idx    int
}

func (c *roundRobinConn) Send(m *netlink.Message) error { return nil }

func (c *roundRobinConn) Receive() ([]*netlink.Message, error) {
	round := c.rounds[c.idx%len(c.rounds)]
	c.idx++
	done := &netlink.Message{Header: netlink.Header{Type: netlink.TypeDone}}
	return append(append([]*netlink.Message{}, round...), done), nil
}

func (c *roundRobinConn) SetTimeout(d time.Duration) error { return nil }
func (c *roundRobinConn) Close() error                     { return nil }
func (c *roundRobinConn) Port() uint32                      { return 1 }
func (c *roundRobinConn) NextSeq() uint32                   { return 1 }

func ifaceReply(phy int, name string, ifindex uint32) *netlink.Message {
	m := netlink.NewMessage(0x1B, 0, 0)
	m.PutU32(nl80211.AttrWiphy, uint32(phy))
	m.PutString(nl80211.AttrIfname, name)
	m.PutU32(nl80211.AttrIfindex, ifindex)
	m.PutU32(nl80211.AttrIftype, uint32(wifi.IftypeStation))
	parsed, err := netlink.ParseMessage(m.Encode())
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestRunReportsChangeAndVanish(t *testing.T) {
	conn := &roundRobinConn{rounds: [][]*netlink.Message{
		{ifaceReply(0, "wlan0", 3)},
		{ifaceReply(0, "wlan0", 3)}, // unchanged: no Change emitted
		{},                          // wlan0 vanished
	}}
	h := wifi.NewTestHandle(conn, 0x1B)

	out := make(chan Change, 8)
	err := Run(context.Background(), h, time.Millisecond, 3, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var changes []Change
	for c := range out {
		changes = append(changes, c)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d events, want 1 (the vanish)", len(changes))
	}
	if !changes[0].Vanished || changes[0].Device != "wlan0" {
		t.Errorf("event = %+v, want a vanish for wlan0", changes[0])
	}
}
