// Package portid allocates netlink port identifiers that are unique within
// the current process, as required of a Socket Handle by spec §3: "a port
// identifier that is unique within the process (e.g. derived from process
// identifier mixed with a counter)".
//
// Grounded on the teacher's uuid package, which caches a process-wide
// prefix (hostname + boot time) and mixes in a per-call value to produce a
// globally-unique socket cookie string. Here the "prefix" is the caller's
// PID and the "per-call value" is an atomic counter, and the result is a
// uint32 suitable for sockaddr_nl.Pid rather than a display string.
package portid

import (
	"os"
	"sync/atomic"
)

var counter uint32

// pid is cached once; like the teacher's cachedPrefixString, it never
// changes for the lifetime of the process.
var pid = uint32(os.Getpid())

// Next returns a netlink port identifier unique among calls made by this
// process. It mixes the process id into the high bits and an incrementing
// counter into the low bits, so concurrent callers opening distinct
// Socket Handles never collide on a port even though each handle binds its
// own kernel-side autobind slot is not guaranteed collision-free by the
// kernel alone.
func Next() uint32 {
	n := atomic.AddUint32(&counter, 1)
	return (pid << 16) ^ n
}
