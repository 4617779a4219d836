package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Transform")
	r.StatusLine("src/App.js", "success", "2 tags")
	r.StatusLine("src/bad.js", "failed", "")
	r.Success("done")
	r.Error("boom")
	r.Muted("note")

	assert.Equal(t, "# Transform\n\n✓ src/App.js  2 tags\n✗ src/bad.js\n", out.String())
	assert.Equal(t, "✓ done\n✗ boom\nnote\n", errOut.String())
}

func TestRenderer_Table(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Table([]string{"File", "Tags"}, [][]string{{"a.js", "1"}, {"b.js", "0"}})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "File")
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[2], "a.js")
	assert.True(t, strings.HasPrefix(lines[3], "|"))
}

func TestRenderer_TableText(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, true)

	r.Table([]string{"File"}, [][]string{{"a.js"}})
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "a.js")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"files": 2}))
	assert.Equal(t, "{\n  \"files\": 2\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Sites", FormatHeader(2, "Sites"))
	assert.Equal(t, "# Sites", FormatHeader(0, "Sites"))
	assert.Equal(t, "- **Module**: esm", FormatKeyValue("Module", "esm"))
	assert.Equal(t, "```js\nconst a = 1;\n```", FormatCodeBlock("js", "const a = 1;\n"))
}
