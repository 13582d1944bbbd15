// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package version

import (
	"fmt"
	"strconv"
)

// Key is the normalized registry key for one representation of a version.
type Key string

// codeKeyPrefix keeps numeric codes apart from bare major keys: the code of
// 0.0.1 is 1, which must not shadow major 1.
const codeKeyPrefix = "#"

// MajorKey is the key for a bare major line, e.g. "1".
func MajorKey(major int) Key {
	return Key(strconv.Itoa(major))
}

// MinorKey is the key for a major.minor line, e.g. "1.2".
func MinorKey(major, minor int) Key {
	return Key(fmt.Sprintf("%d.%d", major, minor))
}

// TripleKey is the canonical key for an exact version, e.g. "1.2.3".
func TripleKey(t Triple) Key {
	return Key(t.String())
}

// CodeKey is the key for a numeric version code, e.g. "#10203".
func CodeKey(code int) Key {
	return Key(codeKeyPrefix + strconv.Itoa(code))
}

// Keys returns every key a registered version is installed under, in the
// order they are written: canonical, code, major, major.minor.
func (t Triple) Keys() []Key {
	return []Key{
		TripleKey(t),
		CodeKey(t.Code()),
		MajorKey(t.Major),
		MinorKey(t.Major, t.Minor),
	}
}

// Key returns the most specific key for the components that are present.
func (p Partial) Key() Key {
	switch {
	case p.Minor == nil:
		return MajorKey(p.Major)
	case p.Patch == nil:
		return MinorKey(p.Major, *p.Minor)
	default:
		return TripleKey(p.Default())
	}
}

// Pad2 formats a component as the two-digit path segment used in module paths.
func Pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
