package linkevent

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/wifinl/nl80211ctl/wifi"
)

func TestServerBroadcastsToClient(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "linkevent.sock")
	s := New(sockPath)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveErrC := make(chan error, 1)
	go func() { serveErrC <- s.Serve(ctx) }()

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Give Serve's accept loop a moment to register the client.
	time.Sleep(20 * time.Millisecond)

	card := wifi.Card{Phy: 0, Device: "wlan0", Ifindex: 3}
	s.CardChanged("wlan0", card)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}

	var got LinkEvent
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("Unmarshal(%q): %v", line, err)
	}
	if got.Kind != Changed || got.Device != "wlan0" || got.Card != card {
		t.Errorf("got %+v, want a Changed event for wlan0 carrying %+v", got, card)
	}

	cancel()
	select {
	case <-serveErrC:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestCardVanished(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "linkevent.sock")
	s := New(sockPath)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	time.Sleep(20 * time.Millisecond)

	s.CardVanished("wlan1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	var got LinkEvent
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("Unmarshal(%q): %v", line, err)
	}
	if got.Kind != Vanished || got.Device != "wlan1" {
		t.Errorf("got %+v, want a Vanished event for wlan1", got)
	}
}
