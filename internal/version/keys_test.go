// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyConversions(t *testing.T) {
	assert.Equal(t, Key("1"), MajorKey(1))
	assert.Equal(t, Key("1.2"), MinorKey(1, 2))
	assert.Equal(t, Key("1.2.3"), TripleKey(New(1, 2, 3)))
	assert.Equal(t, Key("#10203"), CodeKey(10203))
}

func TestCodeKey_NeverCollidesWithMajorKey(t *testing.T) {
	// 0.0.1 encodes to 1, which is also the bare major 1.
	assert.NotEqual(t, MajorKey(1), CodeKey(New(0, 0, 1).Code()))
}

func TestTriple_Keys(t *testing.T) {
	assert.Equal(t,
		[]Key{"2.1.3", "#20103", "2", "2.1"},
		New(2, 1, 3).Keys(),
	)
}

func TestPartial_Key(t *testing.T) {
	testCases := []struct {
		input    string
		expected Key
	}{
		{input: "3", expected: "3"},
		{input: "3.1", expected: "3.1"},
		{input: "3.1.4", expected: "3.1.4"},
		{input: "3.0.0", expected: "3.0.0"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, MustParse(tc.input).Key())
		})
	}
}

func TestPad2(t *testing.T) {
	assert.Equal(t, "00", Pad2(0))
	assert.Equal(t, "07", Pad2(7))
	assert.Equal(t, "42", Pad2(42))
}
