package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/splitflap"
	"github.com/calvinmclean/splitflap/device"
	"github.com/calvinmclean/splitflap/device/sim"
	"github.com/calvinmclean/splitflap/settings"
)

const rev = splitflap.StepsPerRevolution

type testModule struct {
	device *device.Device
	sim    *sim.Module
	store  *settings.MemoryStore
	out    *bytes.Buffer
}

func newTestShell(t *testing.T, input string) (*Shell, testModule) {
	t.Helper()

	m := sim.NewModule(rev, 0, 1000)
	d, err := device.New(m.Stepper, m.Hall, m.Clock, device.DefaultConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	d.SetOutput(&out)

	store := settings.NewMemoryStore()
	s := NewShell(d, settings.NewConfig(store), "A1B2C3", strings.NewReader(input), &out)
	return s, testModule{d, m, store, &out}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name             string
		line             string
		expectedPosition int64
		expectedErr      error
	}{
		{"Character", "B", 72, nil},
		{"LowerCaseCharacter", "c", 144, nil},
		{"Space", " ", 4032, nil},
		{"Index", "27", 27 * 72, nil},
		{"IndexWithWhitespace", "  2 \r", 144, nil},
		{"IndexOutOfRange", "57", 0, device.ErrIndexOutOfRange},
		{"HugeIndex", "99999999999999999999", 0, device.ErrIndexOutOfRange},
		{"UnknownCharacter", "*", 0, device.ErrUnknownCharacter},
		{"Move", "move 100", 100, nil},
		{"Empty", "", 0, nil},
		{"Blank", "   ", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestShell(t, "")
			err := s.Execute(tt.line)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedPosition, m.device.Position())
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	s, m := newTestShell(t, "")

	err := s.Execute("FOO")
	require.Error(t, err)
	assert.Equal(t, "unknown command: FOO (type HELP for a list)", err.Error())

	assert.EqualError(t, s.Execute("MOVE"), "usage: MOVE <steps>")
	assert.EqualError(t, s.Execute("MOVE ten"), "invalid steps: ten")
	assert.EqualError(t, s.Execute("OFFSET 1 2"), "expected at most one value")
	assert.EqualError(t, s.Execute("OFFSET x"), "invalid steps: x")
	assert.ErrorIs(t, s.Execute("OFFSET 5000"), device.ErrOffsetOutOfRange)
	assert.Equal(t, int64(0), m.device.Position())
}

func TestInfo(t *testing.T) {
	s, m := newTestShell(t, "")
	require.NoError(t, s.Execute("MOVE 1024"))
	m.out.Reset()

	require.NoError(t, s.Execute("info"))
	assert.Equal(t, separator+"\n"+
		"Current Step Position: 1024 | Degrees: 90.00\n"+
		"Magnet has passed 0 times since Zeroing\n"+
		"Zero Offset (Degrees): 91\n"+
		"Step Offset (Steps): 0\n", m.out.String())
}

func TestPositionAndCount(t *testing.T) {
	s, m := newTestShell(t, "")

	// passes the magnet at physical 1000
	require.NoError(t, s.Execute("Z"))
	m.out.Reset()

	require.NoError(t, s.Execute("POS"))
	require.NoError(t, s.Execute("COUNT"))
	assert.Equal(t, separator+"\n"+
		"Current Step Position: 1800 | Degrees: 158.20\n"+
		separator+"\n"+
		"Magnet has passed 1 times since last zeroing.\n", m.out.String())
}

func TestList(t *testing.T) {
	s, m := newTestShell(t, "")
	require.NoError(t, s.Execute("LIST"))

	lines := strings.Split(strings.TrimSpace(m.out.String()), "\n")
	require.Len(t, lines, splitflap.NumFlaps+2)
	assert.Equal(t, "Character Index List:", lines[1])
	assert.Equal(t, "0: A", lines[2])
	assert.Equal(t, "26: 0", lines[28])
	assert.True(t, strings.HasSuffix(m.out.String(), "\n56:  \n"))
}

func TestHelp(t *testing.T) {
	s, m := newTestShell(t, "")
	require.NoError(t, s.Execute("help"))

	for _, name := range []string{"INFO", "ZERO", "<number>", "POS", "LIST", "RESET", "REV", "COUNT", "MOVE <steps>", "ZOFFSET [degrees]", "OFFSET [steps]", "CONFIG", "ID", "HELP"} {
		assert.Contains(t, m.out.String(), "***"+name)
	}
	assert.True(t, strings.HasSuffix(m.out.String(), "Type any single character to move to that flap.\n"))
}

func TestZeroAndRev(t *testing.T) {
	s, m := newTestShell(t, "")

	require.NoError(t, s.Execute("ZERO"))
	assert.Equal(t, int64(0), m.device.Position())
	assert.Contains(t, m.out.String(), "Magnet detected and offset applied. Position zeroed.\n")

	require.NoError(t, s.Execute("REV"))
	assert.Contains(t, m.out.String(), "Steps per Revolution: 4096\n")
}

func TestReset(t *testing.T) {
	s, m := newTestShell(t, "")

	require.NoError(t, s.Execute("OFFSET 30"))
	require.NoError(t, s.Execute("ZOFFSET 10"))
	require.NoError(t, s.Execute("Z"))
	require.Equal(t, uint32(1), m.device.MagnetPassCount())

	m.out.Reset()
	require.NoError(t, s.Execute("RESET"))
	assert.Equal(t, "Offsets and counters reset to defaults. Stored settings are unchanged.\n", m.out.String())

	st := m.device.State()
	assert.Equal(t, int64(91), st.ZeroOffsetDegrees)
	assert.Equal(t, int64(0), st.StepOffset)
	assert.Equal(t, uint32(0), st.MagnetPassCount)
	assert.Equal(t, int64(1830), st.Position)

	// persisted values survive
	ints, _ := m.store.Snapshot()
	assert.Equal(t, int32(30), ints[settings.KeyStepOffset])
	assert.Equal(t, int32(10), ints[settings.KeyZeroOffset])
}

func TestSetOffsetWithArgument(t *testing.T) {
	s, m := newTestShell(t, "")

	require.NoError(t, s.Execute("OFFSET -12"))
	assert.Equal(t, "Previous Step Offset (steps): 0\nNew Step Offset (steps): -12\n", m.out.String())
	assert.Equal(t, int64(-12), m.device.StepOffset())

	m.out.Reset()
	require.NoError(t, s.Execute("zoffset 45"))
	assert.Equal(t, "Previous Zero Offset (degrees): 91\nNew Zero Offset (degrees): 45\n", m.out.String())

	zero, err := s.Settings.ZeroOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(45), zero)

	step, err := s.Settings.StepOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(-12), step)
}

func TestSetOffsetInteractive(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedOutput string
		expectedOffset int64
	}{
		{
			"Accept",
			"OFFSET\ny\n25\n",
			"Current Step Offset (steps): 0\n" +
				"Change step offset? (y/n):\n" +
				"Enter new step offset (in steps, integer):\n" +
				"Previous Step Offset (steps): 0\n" +
				"New Step Offset (steps): 25\n",
			25,
		},
		{
			"Decline",
			"OFFSET\nn\nfoo\n",
			"Current Step Offset (steps): 0\n" +
				"Change step offset? (y/n):\n" +
				"No changes made.\n" +
				"error: unknown command: foo (type HELP for a list)\n",
			0,
		},
		{
			"InputEnds",
			"OFFSET\nY\n",
			"Current Step Offset (steps): 0\n" +
				"Change step offset? (y/n):\n" +
				"Enter new step offset (in steps, integer):\n" +
				"No changes made.\n",
			0,
		},
		{
			"InvalidValue",
			"OFFSET\ny\nabc\n",
			"Current Step Offset (steps): 0\n" +
				"Change step offset? (y/n):\n" +
				"Enter new step offset (in steps, integer):\n" +
				"error: invalid steps: abc\n",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestShell(t, tt.input)
			require.NoError(t, s.Run(context.Background()))
			assert.Equal(t, tt.expectedOutput, m.out.String())
			assert.Equal(t, tt.expectedOffset, m.device.StepOffset())
		})
	}
}

func TestConfigAndID(t *testing.T) {
	s, m := newTestShell(t, "")

	require.NoError(t, s.Execute("CONFIG"))
	require.NoError(t, s.Execute("ID"))
	assert.Equal(t, "-------- Settings --------\n"+
		"Zero Offset (degrees): 91\n"+
		"Step Offset (steps): 0\n"+
		"Reserved: \n"+
		"Module ID: A1B2C3\n", m.out.String())

	s.Settings = nil
	assert.EqualError(t, s.Execute("CONFIG"), "no settings store")
}

func TestStart(t *testing.T) {
	s, m := newTestShell(t, "")
	require.NoError(t, m.store.PutInt(settings.KeyZeroOffset, 0))
	require.NoError(t, m.store.PutInt(settings.KeyStepOffset, 7))

	require.NoError(t, s.Start())

	st := m.device.State()
	assert.Equal(t, int64(0), st.Position)
	assert.Equal(t, int64(0), st.ZeroOffsetDegrees)
	assert.Equal(t, int64(7), st.StepOffset)
	// zero offset of 0 stops one step into the magnet
	assert.Equal(t, int64(1001), m.sim.Stepper.Physical())
	assert.True(t, strings.HasPrefix(m.out.String(), "Split-flap module A1B2C3\n"))
}

func TestStartRejectedStepOffset(t *testing.T) {
	s, m := newTestShell(t, "")
	require.NoError(t, m.store.PutInt(settings.KeyStepOffset, 5000))

	require.NoError(t, s.Start())

	st := m.device.State()
	assert.Equal(t, int64(0), st.Position)
	assert.Equal(t, int64(0), st.StepOffset)
	assert.Equal(t, int64(91), st.ZeroOffsetDegrees)
	// default zero offset of 91 degrees past the magnet
	assert.Equal(t, int64(1001+1035), m.sim.Stepper.Physical())
	assert.Contains(t, m.out.String(), "error: stored step offset 5000 not applied, using default: "+device.ErrOffsetOutOfRange.Error()+"\n")
}

func TestOffsetOutsideStoredRange(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{"ZeroOffset", "ZOFFSET 4294967387", "invalid degrees: 4294967387"},
		{"StepOffset", "OFFSET -4294967296", "invalid steps: -4294967296"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestShell(t, "")
			assert.EqualError(t, s.Execute(tt.command), tt.expected)

			assert.Equal(t, int64(91), m.device.ZeroOffsetDegrees())
			assert.Equal(t, int64(0), m.device.StepOffset())

			zero, err := s.Settings.ZeroOffset()
			require.NoError(t, err)
			assert.Equal(t, int64(91), zero)
			step, err := s.Settings.StepOffset()
			require.NoError(t, err)
			assert.Equal(t, int64(0), step)
		})
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	s, m := newTestShell(t, "*\nB\nnope\n")
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, int64(72), m.device.Position())
	assert.Equal(t, "error: unknown character\n"+
		"Moving to index 1 (Character: 'B')...\nDone.\n"+
		"error: unknown command: nope (type HELP for a list)\n", m.out.String())
}

func TestRunCancelled(t *testing.T) {
	s, m := newTestShell(t, "B\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Equal(t, int64(0), m.device.Position())
}
