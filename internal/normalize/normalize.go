// Package normalize canonicalizes answers before they are compared.
//
// Two policies exist. Plain trims and case-folds. PrefixStripping also drops
// every whitespace rune and every "tcp/" or "udp/" marker, so "TCP/22" and
// "22" grade as the same port.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Mode selects a normalization policy.
type Mode int

const (
	Plain Mode = iota
	PrefixStripping
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case PrefixStripping:
		return "prefix-stripping"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the spelling used in configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "prefix-stripping":
		return PrefixStripping, nil
	default:
		return Plain, fmt.Errorf("unknown normalizer %q", s)
	}
}

// protocolPrefixes are removed anywhere in the text by PrefixStripping.
var protocolPrefixes = []string{"tcp/", "udp/"}

// Normalizer maps text to its comparison form.
type Normalizer struct {
	mode Mode
}

// New returns a Normalizer for mode.
func New(mode Mode) Normalizer {
	return Normalizer{mode: mode}
}

// Mode reports the policy in use.
func (n Normalizer) Mode() Mode {
	return n.mode
}

// Normalize returns the canonical form of s. It is idempotent.
func (n Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// cases.Caser keeps state, so each call gets its own.
	s = cases.Fold().String(strings.TrimSpace(s))

	if n.mode != PrefixStripping {
		return s
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	// Removing one marker can splice together another ("tctcp/p/"),
	// so repeat until nothing changes.
	for {
		before := s
		for _, p := range protocolPrefixes {
			s = strings.ReplaceAll(s, p, "")
		}
		if s == before {
			return s
		}
	}
}

// Match reports whether answer grades as correct against want.
func (n Normalizer) Match(answer, want string) bool {
	return n.Normalize(answer) == n.Normalize(want)
}
