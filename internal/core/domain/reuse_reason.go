package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ReuseReason describes how a step's output relates to the previous run.
type ReuseReason string

const (
	// ReasonNew indicates the step had no prior output to compare against.
	ReasonNew ReuseReason = "New"
	// ReasonCached indicates the step's inputs were unchanged and its prior output was reused without running.
	ReasonCached ReuseReason = "Cached"
	// ReasonUnchanged indicates the step ran again and produced an output equal to the prior one.
	ReasonUnchanged ReuseReason = "Unchanged"
	// ReasonModified indicates the step ran again and produced a different output.
	ReasonModified ReuseReason = "Modified"
	// ReasonRemoved indicates a prior output no longer exists.
	ReasonRemoved ReuseReason = "Removed"
)

// ReuseReasons lists every reason in reporting order.
var ReuseReasons = []ReuseReason{ReasonNew, ReasonCached, ReasonUnchanged, ReasonModified, ReasonRemoved}

// IsReuse reports whether the reason means the prior result was kept (Cached or Unchanged).
func (r ReuseReason) IsReuse() bool {
	switch r {
	case ReasonCached, ReasonUnchanged:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ReuseReason.
func (r ReuseReason) String() string {
	return string(r)
}

// ParseReuseReason converts a case-insensitive name into a ReuseReason.
// This is useful for deserialization of traces recorded by other hosts.
func ParseReuseReason(s string) (ReuseReason, error) {
	for _, r := range ReuseReasons {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", zerr.With(ErrUnknownReuseReason, "reason", s)
}
