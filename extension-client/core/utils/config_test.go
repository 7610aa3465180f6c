package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name  string   `yaml:"name"`
	Chain string   `yaml:"chain"`
	Tags  []string `yaml:"tags"`
}

func TestReadYamlConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: vectis\nchain: uni-6\ntags: [a, b]\n"), 0o600))

	var cfg sampleConfig
	require.NoError(t, ReadYamlConfig(path, &cfg))
	assert.Equal(t, sampleConfig{Name: "vectis", Chain: "uni-6", Tags: []string{"a", "b"}}, cfg)
}

func TestReadYamlConfigErrors(t *testing.T) {
	dir := t.TempDir()

	var cfg sampleConfig
	require.Error(t, ReadYamlConfig(filepath.Join(dir, "missing.yaml"), &cfg))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unterminated"), 0o600))
	require.Error(t, ReadYamlConfig(bad, &cfg))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("name: vectis\nchian: uni-6\n"), 0o600))
	require.ErrorContains(t, ReadYamlConfig(unknown, &cfg), "chian")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	cfg = sampleConfig{Name: "kept"}
	require.NoError(t, ReadYamlConfig(empty, &cfg))
	assert.Equal(t, "kept", cfg.Name)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("VECTIS_TEST_DIR", "/srv/vectis")

	tests := []struct {
		in       string
		expected string
	}{
		{"~/.vectis", filepath.Join(home, ".vectis")},
		{"~", home},
		{"$VECTIS_TEST_DIR/db", "/srv/vectis/db"},
		{"./data/../db", "db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestLookupEnv(t *testing.T) {
	t.Setenv("VECTIS_TEST_STR", "value")
	t.Setenv("VECTIS_TEST_UINT", "42")
	t.Setenv("VECTIS_TEST_BOOL", "true")
	t.Setenv("VECTIS_TEST_DURATION", "700ms")
	t.Setenv("VECTIS_TEST_EMPTY", "")

	assert.Equal(t, "value", LookupEnvStr("VECTIS_TEST_STR", "default"))
	assert.Equal(t, "default", LookupEnvStr("VECTIS_TEST_EMPTY", "default"))
	assert.Equal(t, uint64(42), LookupEnvUint64("VECTIS_TEST_UINT", 1))
	assert.Equal(t, uint64(1), LookupEnvUint64("VECTIS_TEST_UNSET", 1))
	assert.True(t, LookupEnvBool("VECTIS_TEST_BOOL", false))
	assert.False(t, LookupEnvBool("VECTIS_TEST_UNSET", false))
	assert.Equal(t, 700*time.Millisecond, LookupEnvDuration("VECTIS_TEST_DURATION", time.Second))

	t.Setenv("VECTIS_TEST_UINT", "nope")
	assert.Panics(t, func() { LookupEnvUint64("VECTIS_TEST_UINT", 1) })
}
