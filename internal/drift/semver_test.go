package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		current  string
		bump     Bump
		expected string
	}{
		{"1.2.3", BumpMajor, "2.0.0"},
		{"1.2.3", BumpMinor, "1.3.0"},
		{"1.2.3", BumpPatch, "1.2.4"},
		{"v1.2.3", BumpMinor, "v1.3.0"},
		{"2.0.0-beta.1", BumpPatch, "2.0.1"},
		{"1.2", BumpMinor, "1.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.current+"/"+string(tt.bump), func(t *testing.T) {
			next, err := NextVersion(tt.current, tt.bump)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
		})
	}
}

func TestNextVersion_Invalid(t *testing.T) {
	_, err := NextVersion("not-a-version", BumpPatch)
	assert.Error(t, err)

	_, err = NextVersion("1.2.3", Bump("huge"))
	assert.Error(t, err)
}
