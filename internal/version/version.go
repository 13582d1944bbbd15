// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxComponent is the largest component value the two-digit encoding can hold.
const MaxComponent = 99

var (
	// ErrInvalidVersion is returned when a version string is not 1 to 3
	// dot-separated decimal segments.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrComponentOverflow is returned when a component does not fit in the
	// two-digit numeric encoding.
	ErrComponentOverflow = errors.New("version component exceeds two-digit encoding")
)

// digitsRegex matches a single version segment.
var digitsRegex = regexp.MustCompile(`^[0-9]+$`)

// Triple is a fully qualified version.
type Triple struct {
	Major int
	Minor int
	Patch int
}

// New returns the Triple major.minor.patch.
func New(major, minor, patch int) Triple {
	return Triple{Major: major, Minor: minor, Patch: patch}
}

// String returns the canonical "major.minor.patch" form.
func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Code returns the MMmmpp numeric encoding of the version.
// The result is only unambiguous if Validate returns nil.
func (t Triple) Code() int {
	return t.Major*10000 + t.Minor*100 + t.Patch
}

// Validate reports whether every component is in [0, MaxComponent].
func (t Triple) Validate() error {
	for _, c := range []int{t.Major, t.Minor, t.Patch} {
		if c < 0 || c > MaxComponent {
			return fmt.Errorf("%w: %s", ErrComponentOverflow, t)
		}
	}
	return nil
}

// Partial is the result of parsing: the major component is always present,
// minor and patch are nil when the input did not carry them.
type Partial struct {
	Major int
	Minor *int
	Patch *int
}

// HasMinor reports whether the minor component was supplied.
func (p Partial) HasMinor() bool { return p.Minor != nil }

// HasPatch reports whether the patch component was supplied.
func (p Partial) HasPatch() bool { return p.Patch != nil }

// Default fills missing components with 0.
func (p Partial) Default() Triple {
	t := Triple{Major: p.Major}
	if p.Minor != nil {
		t.Minor = *p.Minor
	}
	if p.Patch != nil {
		t.Patch = *p.Patch
	}
	return t
}

// String renders only the components that are present.
func (p Partial) String() string {
	switch {
	case p.Minor == nil:
		return strconv.Itoa(p.Major)
	case p.Patch == nil:
		return fmt.Sprintf("%d.%d", p.Major, *p.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", p.Major, *p.Minor, *p.Patch)
	}
}

// Full returns the Partial form of a Triple with every component present.
func (t Triple) Full() Partial {
	minor, patch := t.Minor, t.Patch
	return Partial{Major: t.Major, Minor: &minor, Patch: &patch}
}

// Parse parses "major", "major.minor" or "major.minor.patch".
//
// The input is split at the first two dots only, so anything after the second
// dot belongs to the patch segment: "1.2.3.4" has patch "3.4" and fails.
func Parse(text string) (Partial, error) {
	segments := strings.SplitN(text, ".", 3)
	for _, s := range segments {
		if !digitsRegex.MatchString(s) {
			return Partial{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
		}
	}

	values := make([]int, len(segments))
	for i, s := range segments {
		n, err := strconv.Atoi(s)
		if err != nil {
			// Only reachable on overflow, the regex already rejected everything else.
			return Partial{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, text, err)
		}
		values[i] = n
	}

	p := Partial{Major: values[0]}
	if len(values) > 1 {
		p.Minor = &values[1]
	}
	if len(values) > 2 {
		p.Patch = &values[2]
	}
	return p, nil
}

// MustParse is like Parse but panics on error. Use it for compiled-in constants.
func MustParse(text string) Partial {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// FromParts builds a Partial from 1 to 3 integers, as accepted by the
// top-level version query.
func FromParts(parts ...int) (Partial, error) {
	if len(parts) == 0 || len(parts) > 3 {
		return Partial{}, fmt.Errorf("%w: expected 1 to 3 components, got %d", ErrInvalidVersion, len(parts))
	}
	for _, n := range parts {
		if n < 0 {
			return Partial{}, fmt.Errorf("%w: negative component %d", ErrInvalidVersion, n)
		}
	}
	p := Partial{Major: parts[0]}
	if len(parts) > 1 {
		minor := parts[1]
		p.Minor = &minor
	}
	if len(parts) > 2 {
		patch := parts[2]
		p.Patch = &patch
	}
	return p, nil
}

// JoinParts renders raw query components for diagnostics, e.g. "9.9.9".
func JoinParts(parts ...int) string {
	s := make([]string, len(parts))
	for i, n := range parts {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ".")
}
