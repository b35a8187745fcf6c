package netlink

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/wifinl/nl80211ctl/nl80211"
)

// genlCtrlType is the netlink message type reserved for the generic-netlink
// control family itself — it is always 0x10, unlike every other genl
// family whose numeric id is resolved at runtime (spec §4.3).
const genlCtrlType uint16 = 0x10

var (
	familyOnce sync.Once
	familyID   uint16
	familyErr  error
)

// ResolveFamily returns the runtime-assigned numeric nl80211 family
// identifier, resolving and caching it process-wide on first call (spec
// §3 "Family Resolver", §5 "the cached nl80211 family identifier is
// process-wide, written at most once under a one-time initialization
// guard"). Subsequent calls return the cached value without I/O.
func ResolveFamily(s transport) (uint16, error) {
	familyOnce.Do(func() {
		familyID, familyErr = resolveFamily(s)
	})
	return familyID, familyErr
}

func resolveFamily(s transport) (uint16, error) {
	req := NewMessage(genlCtrlType, FlagRequest|FlagAck, nl80211.GenlCmdGetFamily)
	req.PutString(nl80211.CtrlAttrFamilyName, nl80211.Family)

	replies, err := Execute(s, req, false)
	if err != nil {
		return 0, fmt.Errorf("netlink: resolving %s family: %w", nl80211.Family, err)
	}
	for _, m := range replies {
		// Replies are decoded against the nl80211 schema, which declares
		// identifier 1 as a u32, so the 2-byte family id is read from its
		// raw payload instead of through Uint16.
		if attrs := m.FindAll(nl80211.CtrlAttrFamilyID); len(attrs) > 0 {
			data := attrs[0].Bytes()
			if len(data) != 2 {
				return 0, fmt.Errorf("%w: CTRL_ATTR_FAMILY_ID has unexpected width", ErrDecode)
			}
			return binary.LittleEndian.Uint16(data), nil
		}
	}
	return 0, fmt.Errorf("%w: no CTRL_ATTR_FAMILY_ID in GETFAMILY reply", ErrDecode)
}

// resetFamilyCacheForTest clears the process-wide cache. It exists only so
// tests can exercise ResolveFamily's one-shot behavior repeatably; no
// production code path calls it (the cache has no invalidation per spec
// §4.3).
func resetFamilyCacheForTest() {
	familyOnce = sync.Once{}
	familyID, familyErr = 0, nil
}
