// Package linkevent broadcasts interface state transitions discovered by
// package monitor to local listeners over a Unix-domain socket, one
// JSON-encoded line per event. This is an application-level notification
// channel, not a subscription to an nl80211 multicast group (spec §1
// non-goal: "no event subscription to multicast netlink groups") — the
// events only ever originate from this library's own polling loop.
//
// Grounded directly on the teacher's eventsocket.Server: the same
// listen/serve/broadcast-to-all-clients shape, with FlowEvent replaced by
// LinkEvent.
package linkevent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/wifinl/nl80211ctl/wifi"
)

//go:generate stringer -type=EventKind

// EventKind is the kind of transition a LinkEvent reports.
type EventKind int

const (
	// Changed is sent when a Card's identity differs from its previous
	// observation under the same device name.
	Changed = EventKind(iota)
	// Vanished is sent when a previously observed device name is no longer
	// present.
	Vanished
)

// LinkEvent is the data sent down the socket in JSONL form. Card is the
// zero value when Kind is Vanished.
type LinkEvent struct {
	Kind      EventKind
	Timestamp time.Time
	Device    string
	Card      wifi.Card `json:",omitempty"`
}

// Server serves LinkEvents over a Unix domain socket. Construct with New;
// callers should not build the zero value directly.
type Server struct {
	eventC       chan *LinkEvent
	filename     string
	clients      map[net.Conn]struct{}
	unixListener net.Listener
	mutex        sync.Mutex
	servingWG    sync.WaitGroup
}

// New makes a new server that will serve clients on the given Unix domain
// socket path once Listen and Serve are called.
func New(filename string) *Server {
	return &Server{
		filename: filename,
		eventC:   make(chan *LinkEvent, 100),
		clients:  make(map[net.Conn]struct{}),
	}
}

func (s *Server) addClient(c net.Conn) {
	log.Println("linkevent: adding client", c)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) removeClient(c net.Conn) {
	s.servingWG.Add(1)
	defer s.servingWG.Done()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
}

func (s *Server) sendToAllListeners(data string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for c := range s.clients {
		if _, err := fmt.Fprintln(c, data); err != nil {
			log.Println("linkevent: write to client", c, "failed:", err, "- removing")
			go s.removeClient(c)
			go c.Close()
		}
	}
}

func (s *Server) notifyClients(ctx context.Context) {
	s.servingWG.Add(1)
	defer s.servingWG.Done()
	for ctx.Err() == nil {
		event := <-s.eventC
		if event == nil {
			continue
		}
		b, err := json.Marshal(*event)
		if err != nil {
			log.Printf("linkevent: bad event %v: %v\n", event, err)
			continue
		}
		s.sendToAllListeners(string(b))
	}
}

// Listen binds the Unix domain socket. Call only once per Server.
func (s *Server) Listen() error {
	s.servingWG.Add(1)
	var err error
	s.unixListener, err = net.Listen("unix", s.filename)
	return err
}

// Serve accepts client connections until ctx is canceled. Call only once
// per Server, after Listen, typically in its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	defer s.servingWG.Done()
	derivedCtx, derivedCancel := context.WithCancel(ctx)
	defer derivedCancel()

	go s.notifyClients(derivedCtx)

	s.servingWG.Add(1)
	go func() {
		<-derivedCtx.Done()
		s.unixListener.Close()
		close(s.eventC)
		s.servingWG.Done()
	}()

	var err error
	for derivedCtx.Err() == nil {
		var conn net.Conn
		conn, err = s.unixListener.Accept()
		if err != nil {
			log.Printf("linkevent: accept on %q failed: %s\n", s.filename, err)
			break
		}
		s.addClient(conn)
	}
	return err
}

// CardChanged broadcasts a Changed event for device carrying card.
func (s *Server) CardChanged(device string, card wifi.Card) {
	s.eventC <- &LinkEvent{Kind: Changed, Timestamp: time.Now(), Device: device, Card: card}
}

// CardVanished broadcasts a Vanished event for device.
func (s *Server) CardVanished(device string) {
	s.eventC <- &LinkEvent{Kind: Vanished, Timestamp: time.Now(), Device: device}
}
