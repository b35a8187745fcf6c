// Package netns discovers the Linux network namespaces a caller could bind
// a wifi.Handle's underlying socket into (SPEC_FULL.md §0/§3: PyRIC is
// single-namespace; this generalizes the teacher's
// namespaces.WatchForNetworkNamespaces into a one-shot enumeration since
// the core has no event loop of its own — spec §5 "no event loop").
package netns

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// ErrCantReadProc is returned when /proc is, for whatever reason, currently
// unreadable.
var ErrCantReadProc = errors.New("netns: can't read /proc")

// List returns the set of PIDs, deduplicated, that own a distinct network
// namespace, discovered by resolving /proc/<pid>/ns/net symlinks. Multiple
// PIDs sharing one namespace collapse to a single representative PID (the
// first one observed by directory order).
func List(procfs string) ([]string, error) {
	d, err := os.Open(procfs)
	if err != nil {
		return nil, ErrCantReadProc
	}
	defer d.Close()

	subdirs, err := d.Readdirnames(0)
	if err != nil {
		return nil, ErrCantReadProc
	}

	seen := make(map[string]bool)
	var pids []string
	for _, subdir := range subdirs {
		if _, err := strconv.Atoi(subdir); err != nil {
			continue
		}
		nsFile, err := os.Readlink(procfs + "/" + subdir + "/ns/net")
		if err != nil {
			continue
		}
		ns, ok := parseNamespaceID(nsFile)
		if !ok {
			log.Println("netns: ill-formatted namespace link:", nsFile)
			continue
		}
		if seen[ns] {
			continue
		}
		seen[ns] = true
		pids = append(pids, subdir)
	}
	return pids, nil
}

// parseNamespaceID extracts the inode-like identifier from a "net:[N]"
// symlink target.
func parseNamespaceID(nsFile string) (string, bool) {
	chunks := strings.Split(nsFile, ":")
	if len(chunks) < 2 {
		return "", false
	}
	id := chunks[len(chunks)-1]
	if len(id) <= 2 || id[0] != '[' || id[len(id)-1] != ']' {
		return "", false
	}
	id = id[1 : len(id)-1]
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", false
	}
	return id, true
}
