// Package ioctlnet sketches the external ioctl-based collaborator spec §6
// describes: a separate AF_INET datagram transport issuing legacy
// SIOCGI*/SIOCSI* control codes via ifreq structures for MAC address,
// IP/netmask/broadcast, interface flags, interface index, wireless name,
// and transmit-power read. This is deliberately OUT of scope for the
// nl80211 core (spec §1); package wifi never calls into this package.
//
// Not exercised by the core's request-response path; present only so a
// caller assembling a unified library surface (spec §6: "the library
// presents a unified surface") has somewhere to put this transport.
package ioctlnet

import (
	"fmt"
	"net"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ifreqSize mirrors struct ifreq on Linux: a 16-byte interface name
// followed by a union, padded to 40 bytes total.
const ifreqSize = 40

// Conn owns one AF_INET SOCK_DGRAM descriptor used only to carry ioctl
// control codes; no datagrams are ever sent or received on it.
type Conn struct {
	fd int
}

// Open creates the ioctl transport socket.
func Open() (*Conn, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil, fmt.Errorf("ioctlnet: socket: %w", err)
	}
	return &Conn{fd: fd}, nil
}

// Close releases the socket.
func (c *Conn) Close() error { return unix.Close(c.fd) }

func newIfreq(name string) ([ifreqSize]byte, error) {
	var req [ifreqSize]byte
	if len(name) >= unix.IFNAMSIZ {
		return req, fmt.Errorf("ioctlnet: interface name %q too long", name)
	}
	copy(req[:unix.IFNAMSIZ], name)
	return req, nil
}

// HardwareAddr issues SIOCGIFHWADDR for name and returns the decoded MAC.
func (c *Conn) HardwareAddr(name string) (net.HardwareAddr, error) {
	req, err := newIfreq(name)
	if err != nil {
		return nil, err
	}
	if err := ioctl(c.fd, unix.SIOCGIFHWADDR, &req); err != nil {
		return nil, fmt.Errorf("ioctlnet: SIOCGIFHWADDR %q: %w", name, err)
	}
	// sockaddr.sa_family (2 bytes) then 6 bytes of address, starting at the
	// union offset (unix.IFNAMSIZ).
	addr := make(net.HardwareAddr, 6)
	copy(addr, req[unix.IFNAMSIZ+2:unix.IFNAMSIZ+8])
	return addr, nil
}

// Index issues SIOCGIFINDEX for name and returns the kernel ifindex.
func (c *Conn) Index(name string) (int, error) {
	req, err := newIfreq(name)
	if err != nil {
		return 0, err
	}
	if err := ioctl(c.fd, unix.SIOCGIFINDEX, &req); err != nil {
		return 0, fmt.Errorf("ioctlnet: SIOCGIFINDEX %q: %w", name, err)
	}
	idx := int32(req[unix.IFNAMSIZ]) | int32(req[unix.IFNAMSIZ+1])<<8 |
		int32(req[unix.IFNAMSIZ+2])<<16 | int32(req[unix.IFNAMSIZ+3])<<24
	return int(idx), nil
}

// Flags issues SIOCGIFFLAGS for name and returns the raw interface flags.
func (c *Conn) Flags(name string) (uint16, error) {
	req, err := newIfreq(name)
	if err != nil {
		return 0, err
	}
	if err := ioctl(c.fd, unix.SIOCGIFFLAGS, &req); err != nil {
		return 0, fmt.Errorf("ioctlnet: SIOCGIFFLAGS %q: %w", name, err)
	}
	return uint16(req[unix.IFNAMSIZ]) | uint16(req[unix.IFNAMSIZ+1])<<8, nil
}

func ioctl(fd int, req uintptr, arg *[ifreqSize]byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(arg)))
	if errno != 0 {
		return errno
	}
	return nil
}
