package splitflap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexOfRoundTrip(t *testing.T) {
	for i := range NumFlaps {
		idx, ok := IndexOf(CharacterAt(i))
		require.True(t, ok, "flap %d (%q)", i, CharacterAt(i))
		assert.Equal(t, i, idx)
	}
}

func TestTableInvariants(t *testing.T) {
	seen := map[byte]bool{}
	flaps := Flaps()
	require.Len(t, flaps, NumFlaps)

	for i, f := range flaps {
		assert.False(t, seen[f.Character], "duplicate character %q", f.Character)
		seen[f.Character] = true

		assert.GreaterOrEqual(t, f.Steps, int64(0))
		assert.Less(t, f.Steps, int64(StepsPerRevolution))
		if i > 0 {
			assert.Greater(t, f.Steps, flaps[i-1].Steps)
		}
	}
}

func TestIndexOf(t *testing.T) {
	tests := []struct {
		name     string
		in       byte
		expected int
		found    bool
	}{
		{"UppercaseA", 'A', 0, true},
		{"LowercaseB", 'b', 1, true},
		{"Digit", '0', 26, true},
		{"Space", ' ', 56, true},
		{"Quote", '"', 43, true},
		{"Unsupported", '*', -1, false},
		{"NonASCII", 0xB0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := IndexOf(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, idx)
		})
	}
}

func TestFlapsIsACopy(t *testing.T) {
	flaps := Flaps()
	flaps[0].Character = 'Z'
	assert.Equal(t, byte('A'), CharacterAt(0))
}

func TestDegreesToSteps(t *testing.T) {
	assert.Equal(t, int64(1035), DegreesToSteps(DefaultZeroOffsetDegrees, StepsPerRevolution))
	assert.Equal(t, int64(-1035), DegreesToSteps(-DefaultZeroOffsetDegrees, StepsPerRevolution))
	assert.Equal(t, int64(StepsPerRevolution), DegreesToSteps(360, StepsPerRevolution))
	assert.Equal(t, int64(100), DegreesToSteps(90, 400))
	assert.InDelta(t, 90.0, StepsToDegrees(1024, StepsPerRevolution), 0.0001)
}
