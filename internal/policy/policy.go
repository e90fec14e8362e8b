package policy

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrEmptyStateList    = errors.New("policy: empty status name list")
	ErrBadMinimumVersion = errors.New("policy: malformed minimum version")
	ErrBadVersionInput   = errors.New("policy: unparsable version component")
)

// SupportedProtoVersion is the only protocol major version the probe speaks.
const SupportedProtoVersion = 1

// Policy holds the classification configuration for one probe run.
// It is built once at startup and shared read-only by every session.
type Policy struct {
	OKStates       []string
	WarningStates  []string
	ErrorStates    []string
	MinimumVersion []int

	minimumText string
}

// Parse builds a Policy from the comma-separated status name lists and
// the dotted minimum version string.
func Parse(okList, warningList, errorList, minimumVersion string) (*Policy, error) {
	p := &Policy{minimumText: strings.TrimSpace(minimumVersion)}

	var err error
	if p.OKStates, err = splitStates("ok", okList); err != nil {
		return nil, err
	}
	if p.WarningStates, err = splitStates("warning", warningList); err != nil {
		return nil, err
	}
	if p.ErrorStates, err = splitStates("error", errorList); err != nil {
		return nil, err
	}
	if p.MinimumVersion, err = ParseVersion(minimumVersion); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadMinimumVersion, minimumVersion)
	}
	return p, nil
}

// MinimumVersionText reports the configured minimum as given, for
// inclusion in warning messages.
func (p *Policy) MinimumVersionText() string {
	return p.minimumText
}

// ClassifyStatus buckets a reported status name, checking the error
// set first, then warning, then ok. Names in no configured set
// classify as Unknown.
func (p *Policy) ClassifyStatus(name string) Severity {
	switch {
	case slices.Contains(p.ErrorStates, name):
		return Error
	case slices.Contains(p.WarningStates, name):
		return Warning
	case slices.Contains(p.OKStates, name):
		return OK
	default:
		return Unknown
	}
}

// CheckVersion compares a reported client version against the
// configured minimum, component by component from the left, scanning
// only as many components as the minimum specifies. The first decisive
// component ends the scan; missing reported components compare as
// zero. It reports whether the client falls short of the minimum.
func (p *Policy) CheckVersion(reported string) (outdated bool, err error) {
	got, err := ParseVersion(reported)
	if err != nil {
		return false, err
	}
	for i, want := range p.MinimumVersion {
		have := 0
		if i < len(got) {
			have = got[i]
		}
		if have < want {
			return true, nil
		}
		if have > want {
			return false, nil
		}
	}
	return false, nil
}

// ProtocolSupported reports whether the peer's protocol version has
// the supported major component.
func ProtocolSupported(proto string) (bool, error) {
	comps, err := ParseVersion(proto)
	if err != nil {
		return false, err
	}
	return comps[0] == SupportedProtoVersion, nil
}

// ParseVersion splits a dotted version string into its non-negative
// integer components, e.g. "1.8" into [1 8].
func ParseVersion(v string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	comps := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrBadVersionInput, part, v)
		}
		comps = append(comps, n)
	}
	return comps, nil
}

func splitStates(kind, list string) ([]string, error) {
	var states []string
	for _, raw := range strings.Split(list, ",") {
		state := strings.TrimSpace(raw)
		if state == "" {
			continue
		}
		states = append(states, state)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyStateList, kind)
	}
	return states, nil
}
