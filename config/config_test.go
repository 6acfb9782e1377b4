package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("history:\n  limit: 50\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, c.History.Limit)
	assert.Equal(t, time.Second, c.History.CoalesceWindow)
	assert.Equal(t, ":8000", c.Web.Addr)
}

func TestParseDuration(t *testing.T) {
	c, err := Parse([]byte("history:\n  coalesce_window: 250ms\nweb:\n  addr: 127.0.0.1:9000\nlog:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.History.CoalesceWindow)
	assert.Equal(t, "127.0.0.1:9000", c.Web.Addr)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"history:\n  limit: -1\n",
		"history:\n  coalesce_window: -1s\n",
		"log:\n  level: loud\n",
		"history: [",
	} {
		_, err := Parse([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("web:\n  addr: :1234\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", c.Web.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
