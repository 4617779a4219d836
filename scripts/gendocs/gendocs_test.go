package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaprelay/internal/cli/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_All(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, run("all", "", root))

	index, err := os.ReadFile(filepath.Join(root, "docs", "cli", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), generatedHeader)
	assert.Contains(t, string(index), "[`transform`](/cli/transform)")
	assert.Contains(t, string(index), "`LEAPRELAY_ARTIFACT_DIRECTORY`")
	assert.Contains(t, string(index), "`relay.config.json`")
	assert.NotContains(t, string(index), "[`completion`]")

	page, err := os.ReadFile(filepath.Join(root, "docs", "cli", "transform.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "leaprelay transform [paths...]")
	assert.Contains(t, string(page), "`--out-dir`")
	assert.Contains(t, string(page), "## JSON Output")
	assert.Contains(t, string(page), "`[].sites[].artifact`")

	check, err := os.ReadFile(filepath.Join(root, "docs", "cli", "check.md"))
	require.NoError(t, err)
	assert.Contains(t, string(check), "`files[].error`")
	assert.Contains(t, string(check), `"failed": 1`)
	assert.Equal(t, 0, strings.Count(string(check), "```")%2)

	_, err = os.Stat(filepath.Join(root, "docs", "cli", "config.md"))
	require.NoError(t, err)

	cfg, err := os.ReadFile(filepath.Join(root, "docs", "reference", "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "`relay.config.json`")
	assert.Contains(t, string(cfg), "`artifactDirectory`")
	assert.Equal(t, 0, strings.Count(string(cfg), "```")%2)
}

func TestRun_ExplicitOutDir(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, run("config", out, t.TempDir()))
	assert.FileExists(t, filepath.Join(out, "configuration.md"))
}

func TestJSONFields(t *testing.T) {
	rows := jsonFields(reflect.TypeOf(commands.CheckOutputJSON{}), "")
	got := map[string]string{}
	for _, row := range rows {
		got[row[0]] = row[1]
	}
	assert.Equal(t, "object[]", got["`files`"])
	assert.Equal(t, "string", got["`files[].sites[].definition`"])
	assert.Equal(t, "number", got["`tags`"])
	assert.Len(t, rows, 9)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "LEAPRELAY_ARTIFACT_DIRECTORY", envName("artifactDirectory"))
	assert.Equal(t, "LEAPRELAY_JOBS", envName("jobs"))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, `a \| b c`, cleanDescription("a | b\n  c"))
}
