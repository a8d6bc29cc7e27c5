package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		versionFormat = "text"
		followDurable = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["follow"])
	assert.True(t, names["version"])
}

func TestVersion_JSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersion_Text(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "athenaeum "+version)
}

func TestVersion_UnknownFormat(t *testing.T) {
	_, err := execute(t, "version", "--format", "yaml")
	assert.Error(t, err)
}

func TestFollow_RequiresAMQPURL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AMQP_URL", "")

	_, err := execute(t, "follow", "--env-file", filepath.Join(t.TempDir(), "none.env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}
