package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"exact match", "NETFLIX", "NETFLIX", true},
		{"case insensitive", "netflix", "NETFLIX", true},
		{"trailing star", "NETFLIX*", "NETFLIX.COM 866-579-7172", true},
		{"leading star", "*THANK YOU", "PAYMENT THANK YOU", true},
		{"star in the middle", "UBER*TRIP", "UBER   EATS TRIP", true},
		{"question mark", "STORE ?", "STORE 7", true},
		{"question mark needs a character", "STORE ?", "STORE ", false},
		{"anchored at both ends", "NETFLIX", "NETFLIX.COM", false},
		{"anchored at the start", "FLIX*", "NETFLIX.COM", false},
		{"regex metacharacters are literal", "A.B+C", "A.B+C", true},
		{"regex metacharacters do not match", "A.B", "AXB", false},
		{"empty pattern matches empty text", "", "", true},
		{"empty pattern rejects text", "", "anything", false},
		{"lone star matches everything", "*", "literally anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchWildcard(tt.pattern, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileWildcardReusable(t *testing.T) {
	re, err := CompileWildcard("STARBUCKS*")
	require.NoError(t, err)

	assert.True(t, re.MatchString("STARBUCKS STORE 123"))
	assert.True(t, re.MatchString("starbucks"))
	assert.False(t, re.MatchString("POS STARBUCKS"))
}
