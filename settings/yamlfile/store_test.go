package yamlfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/splitflap/settings"
)

func TestStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := Open(path)
	require.NoError(t, err)

	cfg := settings.NewConfig(s)
	zero, err := cfg.ZeroOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(91), zero)

	require.NoError(t, cfg.SetStepOffset(-25))
	require.NoError(t, cfg.SetReserved("row 2"))

	reopened, err := Open(path)
	require.NoError(t, err)
	cfg = settings.NewConfig(reopened)

	step, err := cfg.StepOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(-25), step)

	zero, err = cfg.ZeroOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(91), zero)

	reserved, err := cfg.Reserved()
	require.NoError(t, err)
	assert.Equal(t, "row 2", reserved)
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"InvalidYAML", "ints: [1, 2"},
		{"WrongNamespace", "namespace: other\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Open(path)
			assert.Error(t, err)
		})
	}
}

func TestWrongType(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	require.NoError(t, s.PutInt(settings.KeyReserved, 1))
	_, err = s.GetString(settings.KeyReserved, "")
	assert.ErrorIs(t, err, settings.ErrWrongType)
}
