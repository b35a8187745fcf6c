package wifi

import (
	"strings"

	"github.com/wifinl/nl80211ctl/nl80211"
)

// validateChannelType rejects any value not in the known HT channel-type
// enumeration (spec §4.5 "channel-width must be one of the known tags").
func validateChannelType(ct ChannelType) error {
	switch ct {
	case ChanNoHT, ChanHT20, ChanHT40Neg, ChanHT40Pos:
		return nil
	default:
		return newError("set-wiphy", EINVAL, "unknown channel type %d", uint32(ct))
	}
}

// validateRetry rejects a retry short/long value outside [RETRY_MIN,
// RETRY_MAX] (spec §4.5).
func validateRetry(op string, limit uint8) error {
	if limit < nl80211.RetryMin || limit > nl80211.RetryMax {
		return newError(op, EINVAL, "retry limit %d out of range [%d, %d]", limit, nl80211.RetryMin, nl80211.RetryMax)
	}
	return nil
}

// validateThreshold accepts either the kernel's disable sentinel or a value
// strictly within [0, sentinel) (spec §4.5: "RTS and fragmentation
// thresholds are either the disable sentinel or within declared bounds").
func validateThreshold(op string, value, sentinel uint32) error {
	if value == sentinel {
		return nil
	}
	if value > sentinel {
		return newError(op, EINVAL, "threshold %d exceeds sentinel %d", value, sentinel)
	}
	return nil
}

// validateCoverageClass rejects a value outside [0, 31] (spec §4.5;
// GLOSSARY "Coverage class").
func validateCoverageClass(cc uint8) error {
	if cc > nl80211.CoverageClassMax {
		return newError("set-wiphy", EINVAL, "coverage class %d exceeds max %d", cc, nl80211.CoverageClassMax)
	}
	return nil
}

// normalizeAlpha2 upper-cases and validates a 2-character regulatory-domain
// code (spec §4.5: "regulatory domain is exactly two characters, uppercased
// before sending"; spec §8 boundary scenario #3).
func normalizeAlpha2(alpha2 string) (string, error) {
	if len(alpha2) != 2 {
		return "", newError("req-set-reg", EINVAL, "alpha2 code %q must be exactly 2 characters", alpha2)
	}
	return strings.ToUpper(alpha2), nil
}

// thresholdFromAttr converts a decoded u32 attribute into a Threshold,
// normalizing a value at or above sentinel to the symbolic "off" (spec
// §4.5 "Decoding").
func thresholdFromAttr(value uint32, sentinel uint32) Threshold {
	if value >= sentinel {
		return Threshold{Off: true}
	}
	return Threshold{Value: value}
}
