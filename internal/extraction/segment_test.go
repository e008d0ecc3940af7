package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSections(t *testing.T) {
	text := "first\nsection\n\n  \n\nsecond\r\n\r\nthird\n\n\n"

	assert.Equal(t, []string{"first\nsection", "second", "third"}, SplitSections(text))
	assert.Empty(t, SplitSections(""))
	assert.Empty(t, SplitSections("\n\n   \n"))
}

func TestSplitEntries(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "numbered items",
			text:     "1. Sh. A B\n   Room 1\n2. Smt. C D\n(3) E F",
			expected: []string{"1. Sh. A B\n   Room 1", "2. Smt. C D", "(3) E F"},
		},
		{
			name:     "honorific lines",
			text:     "Header line\nSh. Ramesh Kumar\nDistrict Judge\nSmt. Neha Gupta\nASJ",
			expected: []string{"Header line", "Sh. Ramesh Kumar\nDistrict Judge", "Smt. Neha Gupta\nASJ"},
		},
		{
			name:     "blank lines and form feeds",
			text:     "Sh. A B\n\nnotes\fSh. C D",
			expected: []string{"Sh. A B", "notes", "Sh. C D"},
		},
		{
			name:     "lower case after honorific does not split",
			text:     "Sh. A B\nsh. is an abbreviation",
			expected: []string{"Sh. A B\nsh. is an abbreviation"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitEntries(tc.text))
		})
	}
}

func TestSplitEntries_Empty(t *testing.T) {
	assert.Empty(t, SplitEntries(""))
	assert.Empty(t, SplitEntries("\n \n"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ramesh Kumar", CleanName("Ramesh Kumar District Judge"))
	assert.Equal(t, "", CleanName("District Judge"))
	assert.Equal(t, "A. B. Singh", CleanName("A. B. Singh"))
}
