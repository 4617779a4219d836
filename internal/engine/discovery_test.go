package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_Walk(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/App.tsx":                          plainModule,
		"src/util.js":                          plainModule,
		"src/legacy.cjs":                       plainModule,
		"src/types.d.ts":                       "export type A = string;\n",
		"src/styles.css":                       "body {}\n",
		"src/__generated__/A.graphql.js":       plainModule,
		"node_modules/react/index.js":          plainModule,
		".cache/bundle.js":                     plainModule,
		"packages/web/src/index.mts":           plainModule,
		"packages/web/node_modules/x/index.js": plainModule,
	})
	eng := newEngine(t, Config{})

	files, err := eng.Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "packages", "web", "src", "index.mts"),
		filepath.Join(dir, "src", "App.tsx"),
		filepath.Join(dir, "src", "legacy.cjs"),
		filepath.Join(dir, "src", "util.js"),
	}, files)
}

func TestDiscover_Extensions(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts":  plainModule,
		"b.tsx": plainModule,
		"c.js":  plainModule,
	})
	eng := newEngine(t, Config{Extensions: []string{"ts", ".TSX"}})

	files, err := eng.Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ts"), filepath.Join(dir, "b.tsx")}, files)

	// Files named explicitly only need a supported extension.
	files, err = eng.Discover(filepath.Join(dir, "c.js"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "c.js")}, files)
}

func TestDiscover_CustomExclude(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/a.js":          plainModule,
		"vendor/b.js":       plainModule,
		"node_modules/c.js": plainModule,
	})
	eng := newEngine(t, Config{Exclude: []string{"vendor"}})

	files, err := eng.Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "node_modules", "c.js"),
		filepath.Join(dir, "src", "a.js"),
	}, files)
}

func TestDiscover_Dedup(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/a.js": plainModule})
	eng := newEngine(t, Config{})

	files, err := eng.Discover(dir, filepath.Join(dir, "src"), filepath.Join(dir, "src", "a.js"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src", "a.js")}, files)
}

func TestDiscover_Errors(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"styles.css": "body {}\n",
		"a.d.ts":     "export type A = string;\n",
	})
	eng := newEngine(t, Config{})

	_, err := eng.Discover(filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "failed to stat")

	_, err = eng.Discover(filepath.Join(dir, "styles.css"))
	assert.ErrorContains(t, err, "unsupported source extension")

	_, err = eng.Discover(filepath.Join(dir, "a.d.ts"))
	assert.ErrorContains(t, err, "unsupported source extension")
}
