package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyValues(t *testing.T) {
	dst := map[string]any{}
	err := applyValues(dst, []string{"email=a@example.com", "ids=[1, 2]", "count=3", "empty="})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"email": "a@example.com",
		"ids":   []any{1, 2},
		"count": 3,
		"empty": "",
	}, dst)

	assert.Error(t, applyValues(dst, []string{"novalue"}))
	assert.Error(t, applyValues(dst, []string{"=x"}))
}

func TestReadMessage(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.yaml")
	require.NoError(t, os.WriteFile(full, []byte("id: m-1\ntopic: signup\npayload:\n  email: a@example.com\n"), 0o600))

	msg, err := readMessage(full)
	require.NoError(t, err)
	assert.Equal(t, "m-1", msg.ID)
	assert.Equal(t, "signup", msg.Topic)
	assert.Equal(t, map[string]any{"email": "a@example.com"}, msg.Payload)

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`{"email": "b@example.com"}`), 0o600))

	msg, err = readMessage(bare)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, map[string]any{"email": "b@example.com"}, msg.Payload)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	msg, err = readMessage(empty)
	require.NoError(t, err)
	assert.NotNil(t, msg.Payload)

	_, err = readMessage(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNodeRunHelpNamesItsFlags(t *testing.T) {
	for _, m := range regexp.MustCompile(`--([a-z-]+) key=value`).FindAllStringSubmatch(nodeRunCmd.Long, -1) {
		f := nodeRunCmd.Flags().Lookup(m[1])
		if assert.NotNil(t, f, "help mentions unknown flag --%s", m[1]) {
			assert.Contains(t, f.Usage, "key=value")
		}
	}
	assert.Contains(t, nodeRunCmd.Long, "--config-value key=value")
}
