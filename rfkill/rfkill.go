// Package rfkill sketches the external rfkill collaborator spec §6
// describes: fixed-size event records read from /dev/rfkill and textual
// state exposed under /sys/class/rfkill/rfkill<n>/. Not netlink, and
// deliberately OUT of scope for the nl80211 core (spec §1); package wifi
// never calls into this package.
package rfkill

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Type identifies the class of device an rfkill switch controls.
type Type uint8

// rfkill device types, as in uapi/linux/rfkill.h.
const (
	TypeAll Type = iota
	TypeWLAN
	TypeBluetooth
	TypeUWB
	TypeWiMAX
	TypeWWAN
	TypeGPS
	TypeFM
	TypeNFC
)

// Op identifies the kind of rfkill event record.
type Op uint8

// rfkill event operations, as in uapi/linux/rfkill.h.
const (
	OpAdd Op = iota
	OpDel
	OpChange
	OpChangeAll
)

// eventSize is the fixed size of one struct rfkill_event record:
// idx(u32), type(u8), op(u8), hard(u8), soft(u8).
const eventSize = 8

// Event is one decoded rfkill_event record.
type Event struct {
	Idx  uint32
	Type Type
	Op   Op
	Hard bool
	Soft bool
}

// ReadEvents decodes every fixed-size record in r (typically an open
// /dev/rfkill descriptor) until EOF.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	buf := make([]byte, eventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, fmt.Errorf("rfkill: read event: %w", err)
		}
		events = append(events, Event{
			Idx:  binary.LittleEndian.Uint32(buf[0:4]),
			Type: Type(buf[4]),
			Op:   Op(buf[5]),
			Hard: buf[6] != 0,
			Soft: buf[7] != 0,
		})
	}
}

// State is the sysfs-reported state of one rfkill switch.
type State struct {
	Name string
	Type Type
	Soft bool
	Hard bool
}

// ReadState reads /sys/class/rfkill/rfkill<idx>/{name,type,soft,hard} for
// the switch numbered idx under sysfsRoot (normally "/sys/class/rfkill").
func ReadState(sysfsRoot string, idx uint32) (State, error) {
	base := fmt.Sprintf("%s/rfkill%d", sysfsRoot, idx)
	name, err := readTrimmed(base + "/name")
	if err != nil {
		return State{}, err
	}
	typeStr, err := readTrimmed(base + "/type")
	if err != nil {
		return State{}, err
	}
	soft, err := readBool(base + "/soft")
	if err != nil {
		return State{}, err
	}
	hard, err := readBool(base + "/hard")
	if err != nil {
		return State{}, err
	}
	return State{Name: name, Type: parseTypeName(typeStr), Soft: soft, Hard: hard}, nil
}

func readTrimmed(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("rfkill: reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func readBool(path string) (bool, error) {
	s, err := readTrimmed(path)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, fmt.Errorf("rfkill: parsing %s: %w", path, err)
	}
	return n != 0, nil
}

func parseTypeName(s string) Type {
	switch s {
	case "wlan":
		return TypeWLAN
	case "bluetooth":
		return TypeBluetooth
	case "uwb":
		return TypeUWB
	case "wimax":
		return TypeWiMAX
	case "wwan":
		return TypeWWAN
	case "gps":
		return TypeGPS
	case "fm":
		return TypeFM
	case "nfc":
		return TypeNFC
	default:
		return TypeAll
	}
}
