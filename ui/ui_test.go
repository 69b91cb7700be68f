package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerWrapper(t *testing.T) {
	var out bytes.Buffer
	c := &controllerWrapper{writer: &out}

	c.GoToCharacter('B', 1)
	c.GoToCharacter('7', 33)
	c.GoToCharacter(' ', 56)
	c.Command("ZERO")
	c.Move(-20)
	c.SetZeroOffset(91)
	c.SetStepOffset(-3)

	assert.Equal(t, "B\n33\n \nZERO\nMOVE -20\nZOFFSET 91\nOFFSET -3\n", out.String())
}

func TestControllerWrapperSetsTimer(t *testing.T) {
	var out bytes.Buffer
	tmr := newTimer(false)
	c := &controllerWrapper{writer: &out, lastCommandTimer: tmr}

	before := time.Now()
	c.Command("POS")

	tmr.mtx.Lock()
	defer tmr.mtx.Unlock()
	assert.False(t, tmr.startTime.Before(before))
}

func TestLogView(t *testing.T) {
	l := newLogView(3)

	var seen []string
	l.onLine = func(line string) { seen = append(seen, line) }

	n, err := l.Write([]byte("one\r\ntw"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []string{"one"}, l.Lines())

	_, err = l.Write([]byte("o\nthree\nfour\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three", "four"}, l.Lines())
	assert.Equal(t, []string{"one", "two", "three", "four"}, seen)
}

func TestParseMovingTo(t *testing.T) {
	tests := []struct {
		line     string
		expected byte
		ok       bool
	}{
		{"Moving to index 1 (Character: 'B')...", 'B', true},
		{"Moving to index 56 (Character: ' ')...", ' ', true},
		{"Moving to index 39 (Character: ''')...", '\'', true},
		{"Moving forward 10 steps...", 0, false},
		{"Moving to index 1", 0, false},
		{"Moving to index 1 (Character: 'B", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, ok := parseMovingTo(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0, false))
	assert.Equal(t, "01:05", formatElapsed(65*time.Second, false))
	assert.Equal(t, "02:03.250", formatElapsed(2*time.Minute+3*time.Second+250*time.Millisecond, true))
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "A", displayText('A'))
	assert.Equal(t, "␣", displayText(' '))
}
