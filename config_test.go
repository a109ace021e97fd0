package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.False(t, c.GetBool("gc.torture"))
	assert.False(t, c.GetBool("gc.disabled"))
	assert.Equal(t, 4*1024*1024, c.GetInt("gc.ballast_bytes"))
	assert.Equal(t, "", c.GetString("boot.script"))
}

func TestLoadYAMLOverlaysKnownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")
	body := "gc.torture: true\ngc.ballast_bytes: 1024\nboot.script: start.core\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c := NewConfig()
	require.NoError(t, c.LoadYAML(path))
	assert.True(t, c.GetBool("gc.torture"))
	assert.Equal(t, 1024, c.GetInt("gc.ballast_bytes"))
	assert.Equal(t, "start.core", c.GetString("boot.script"))
}

func TestLoadYAMLRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nonexistent.knob: 1\n"), 0o644))

	c := NewConfig()
	err := c.LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent.knob")
}

func TestLoadYAMLRejectsTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gc.torture: \"yes\"\n"), 0o644))

	c := NewConfig()
	err := c.LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gc.torture")
}

func TestGetWrongTypePanics(t *testing.T) {
	c := NewConfig()
	assert.Panics(t, func() { c.GetInt("gc.torture") })
}

func TestGetMissingKeyPanics(t *testing.T) {
	c := NewConfig()
	assert.Panics(t, func() { c.GetBool("no.such.key") })
}
