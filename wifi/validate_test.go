package wifi

import (
	"testing"

	"github.com/wifinl/nl80211ctl/nl80211"
)

func TestValidateChannelType(t *testing.T) {
	for _, ct := range []ChannelType{ChanNoHT, ChanHT20, ChanHT40Neg, ChanHT40Pos} {
		if err := validateChannelType(ct); err != nil {
			t.Errorf("validateChannelType(%v) = %v, want nil", ct, err)
		}
	}
	if err := validateChannelType(ChannelType(99)); err == nil {
		t.Error("validateChannelType(99) = nil, want an error")
	}
}

func TestValidateRetry(t *testing.T) {
	if err := validateRetry("set-wiphy", nl80211.RetryMin); err != nil {
		t.Errorf("validateRetry(min) = %v, want nil", err)
	}
	if err := validateRetry("set-wiphy", nl80211.RetryMax); err != nil {
		t.Errorf("validateRetry(max) = %v, want nil", err)
	}
	// A uint8 cannot exceed a RetryMax of 255, so the above-max case only
	// exists for a smaller maximum.
	var hi uint8 = nl80211.RetryMax
	if hi < 255 {
		if err := validateRetry("set-wiphy", hi+1); err == nil {
			t.Error("validateRetry(max+1) = nil, want an error")
		}
	}
	if nl80211.RetryMin > 0 {
		if err := validateRetry("set-wiphy", nl80211.RetryMin-1); err == nil {
			t.Error("validateRetry(min-1) = nil, want an error")
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	const sentinel = 2347
	if err := validateThreshold("set-wiphy", sentinel, sentinel); err != nil {
		t.Errorf("validateThreshold(sentinel) = %v, want nil (the disable value)", err)
	}
	if err := validateThreshold("set-wiphy", 100, sentinel); err != nil {
		t.Errorf("validateThreshold(100) = %v, want nil", err)
	}
	if err := validateThreshold("set-wiphy", sentinel+1, sentinel); err == nil {
		t.Error("validateThreshold(sentinel+1) = nil, want an error")
	}
}

func TestValidateCoverageClass(t *testing.T) {
	if err := validateCoverageClass(nl80211.CoverageClassMax); err != nil {
		t.Errorf("validateCoverageClass(max) = %v, want nil", err)
	}
	if err := validateCoverageClass(nl80211.CoverageClassMax + 1); err == nil {
		t.Error("validateCoverageClass(max+1) = nil, want an error")
	}
}

func TestNormalizeAlpha2(t *testing.T) {
	got, err := normalizeAlpha2("us")
	if err != nil || got != "US" {
		t.Errorf("normalizeAlpha2(\"us\") = (%q, %v), want (\"US\", nil)", got, err)
	}
	if _, err := normalizeAlpha2("usa"); err == nil {
		t.Error("normalizeAlpha2(\"usa\") = nil error, want a length error")
	}
	if _, err := normalizeAlpha2("u"); err == nil {
		t.Error("normalizeAlpha2(\"u\") = nil error, want a length error")
	}
}

func TestThresholdFromAttr(t *testing.T) {
	const sentinel = 2347
	if got := thresholdFromAttr(sentinel, sentinel); !got.Off {
		t.Errorf("thresholdFromAttr(sentinel) = %+v, want Off", got)
	}
	if got := thresholdFromAttr(sentinel+1, sentinel); !got.Off {
		t.Errorf("thresholdFromAttr(sentinel+1) = %+v, want Off (>= sentinel normalizes to off)", got)
	}
	if got := thresholdFromAttr(500, sentinel); got.Off || got.Value != 500 {
		t.Errorf("thresholdFromAttr(500) = %+v, want {Value:500}", got)
	}
}
