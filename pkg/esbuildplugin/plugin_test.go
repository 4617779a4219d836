package esbuildplugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/leapstack-labs/leaprelay/internal/engine"
	"github.com/leapstack-labs/leaprelay/internal/testutil"
	"github.com/leapstack-labs/leaprelay/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profile = "export const fragment = graphql`fragment Profile_user on User { id }`;\n"

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func build(t *testing.T, opts api.BuildOptions) api.BuildResult {
	t.Helper()
	opts.Write = false
	opts.LogLevel = api.LogLevelSilent
	return api.Build(opts)
}

func messages(msgs []api.Message) string {
	var texts []string
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n")
}

func TestPlugin_Bundle(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/index.ts":   "import { fragment } from './Profile';\nconsole.log(fragment as unknown);\n",
		"src/Profile.ts": profile,
		"src/__generated__/Profile_user.graphql.js": "export default { name: 'Profile_user_artifact' };\n",
		"src/plain.js": "export const x = 1;\n",
	})

	result := build(t, api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "src", "index.ts")},
		Bundle:      true,
		Format:      api.FormatESModule,
		Plugins:     []api.Plugin{New(Options{Logger: testutil.NewTestLogger(t)})},
	})
	require.Empty(t, result.Errors, messages(result.Errors))
	require.Len(t, result.OutputFiles, 1)

	out := string(result.OutputFiles[0].Contents)
	assert.Contains(t, out, "Profile_user_artifact")
	assert.NotContains(t, out, "graphql`")
}

func TestPlugin_CommonJSFormat(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/Profile.js": profile})

	result := build(t, api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "src", "Profile.js")},
		Format:      api.FormatCommonJS,
		Plugins:     []api.Plugin{New(Options{Config: transform.Config{ArtifactDirectory: filepath.Join(dir, "generated")}})},
	})
	require.Empty(t, result.Errors, messages(result.Errors))
	require.Len(t, result.OutputFiles, 1)

	out := string(result.OutputFiles[0].Contents)
	assert.Contains(t, out, `require("../generated/Profile_user.graphql").default`)
}

func TestPlugin_ModuleOverride(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/Profile.js": profile})

	result := build(t, api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "src", "Profile.js")},
		Format:      api.FormatESModule,
		Plugins:     []api.Plugin{New(Options{Module: "commonjs", Builder: "snippet"})},
	})
	require.Empty(t, result.Errors, messages(result.Errors))
	require.Len(t, result.OutputFiles, 1)
	assert.Contains(t, string(result.OutputFiles[0].Contents), `require("./__generated__/Profile_user.graphql").default`)
}

func TestPlugin_InvalidTag(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/bad.js": "export const a = graphql`fragment A on User { id }`;\nexport const b = graphql`{ viewer { id } }`;\n",
	})

	result := build(t, api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "src", "bad.js")},
		Plugins:     []api.Plugin{New(Options{})},
	})
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Text, "graphql tag #2")
	assert.Contains(t, result.Errors[0].Text, "must contain names")
	require.NotNil(t, result.Errors[0].Location)
	assert.Equal(t, Name, result.Errors[0].PluginName)
}

func TestPlugin_InvalidOptions(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/Profile.js": profile})

	for _, opts := range []Options{{Builder: "babel"}, {Module: "amd"}} {
		result := build(t, api.BuildOptions{
			EntryPoints: []string{filepath.Join(dir, "src", "Profile.js")},
			Plugins:     []api.Plugin{New(opts)},
		})
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, messages(result.Errors), Name)
	}
}

func newLoader(t *testing.T) *loader {
	t.Helper()
	eng, err := engine.New(engine.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return &loader{engine: eng, logger: testutil.NewTestLogger(t)}
}

func TestLoader_SkipsFilesWithoutTags(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"plain.js":                  "export const x = 1;\n",
		"node_modules/lib/index.js": profile,
		"types.d.ts":                "declare const graphql: any;\n",
	})

	l := newLoader(t)
	for _, name := range []string{"plain.js", "node_modules/lib/index.js", "types.d.ts"} {
		res, err := l.load(api.OnLoadArgs{Path: filepath.Join(dir, filepath.FromSlash(name))})
		require.NoError(t, err)
		assert.Nil(t, res.Contents, name)
	}
}

func TestLoader_ModuleKind(t *testing.T) {
	l := newLoader(t)

	assert.Equal(t, transform.ESModule, l.moduleKind("a.js"))
	assert.Equal(t, transform.CommonJS, l.moduleKind("a.cjs"))

	l.format = api.FormatCommonJS
	assert.Equal(t, transform.CommonJS, l.moduleKind("a.js"))

	l.module = "esm"
	assert.Equal(t, transform.ESModule, l.moduleKind("a.cjs"))
}

func TestLoad(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app", "relay": {"artifactDirectory": "./src/__generated__", "module": "commonjs", "builder": "snippet"}}`,
	})
	nested := filepath.Join(dir, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	opts, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "__generated__"), opts.Config.ArtifactDirectory)
	assert.Equal(t, "commonjs", opts.Module)
	assert.Equal(t, "snippet", opts.Builder)

	opts, err = Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, opts.Module)
	assert.Empty(t, opts.Config.ArtifactDirectory)
}
