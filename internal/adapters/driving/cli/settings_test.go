package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "es-1234567890abcdef",
			expected: "es-1...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Empty(t, maskSecret(""))
	assert.Equal(t, "****", maskSecret("hunter2"))
}

func TestMaskURI(t *testing.T) {
	masked := maskURI("mongodb://app:s3cret@db:27017/lexroster")
	assert.NotContains(t, masked, "s3cret")
	assert.Contains(t, masked, "mongodb://app:")
	assert.Contains(t, masked, "@db:27017/lexroster")
	assert.Equal(t, "mongodb://db:27017", maskURI("mongodb://db:27017"))
	assert.Empty(t, maskURI(""))
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	t.Setenv("LEXROSTER_ENGINE_API_KEY", "es-1234567890abcdef")
	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "es-1...cdef")
	assert.NotContains(t, out, "1234567890")
	assert.Contains(t, out, "backend = 'sqlite'")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "--config", "/etc/lexroster.toml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/etc/lexroster.toml\n", out)
}
