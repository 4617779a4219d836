// Package source loads JavaScript and TypeScript modules into syntax trees and
// prints them back.
//
// TypeScript and JSX are lowered to plain JavaScript with esbuild before they
// are parsed, so the transform only ever sees JavaScript. Comments are not
// kept: the printer emits statements only.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// loaders maps source extensions to the esbuild loader that lowers them.
// .mjs and .cjs map to LoaderNone and are parsed as written. .js may hold
// JSX and is lowered when it does not parse as plain JavaScript.
var loaders = map[string]api.Loader{
	".js":  api.LoaderJSX,
	".mjs": api.LoaderNone,
	".cjs": api.LoaderNone,
	".jsx": api.LoaderJSX,
	".ts":  api.LoaderTS,
	".mts": api.LoaderTS,
	".cts": api.LoaderTS,
	".tsx": api.LoaderTSX,
}

// Extensions returns the source extensions understood by Lower.
func Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}
}

// LoaderFor returns the esbuild loader for path. ok is false for unsupported
// extensions.
func LoaderFor(path string) (loader api.Loader, ok bool) {
	loader, ok = loaders[strings.ToLower(filepath.Ext(path))]
	return loader, ok
}

// IsSource reports whether path has a supported source extension.
func IsSource(path string) bool {
	_, ok := LoaderFor(path)
	return ok
}

// OutputPath returns the path of the JavaScript file emitted for path.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	switch strings.ToLower(ext) {
	case ".ts", ".tsx", ".jsx":
		return base + ".js"
	case ".mts":
		return base + ".mjs"
	case ".cts":
		return base + ".cjs"
	}
	return path
}

// Unit is one loaded module.
type Unit struct {
	Path string  // absolute source path
	Code string  // JavaScript the tree was parsed from
	AST  *js.AST // parsed tree
}

// Load reads path from disk, lowers it and parses it.
func Load(path string) (*Unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	data, err := os.ReadFile(abs) //nolint:gosec // G304: path comes from discovery or the command line
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return LoadSource(abs, string(data))
}

// LoadSource lowers and parses src as if it had been read from path.
func LoadSource(path, src string) (*Unit, error) {
	if strings.EqualFold(filepath.Ext(path), ".js") {
		if tree, err := Parse(path, src); err == nil {
			return &Unit{Path: path, Code: src, AST: tree}, nil
		}
	}

	code, err := Lower(path, src)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(path, code)
	if err != nil {
		return nil, err
	}
	return &Unit{Path: path, Code: code, AST: tree}, nil
}

// Lower converts TypeScript and JSX to JavaScript. .mjs and .cjs sources are
// returned unchanged.
func Lower(path, src string) (string, error) {
	loader, ok := LoaderFor(path)
	if !ok {
		return "", fmt.Errorf("%s: unsupported source extension %q", path, filepath.Ext(path))
	}
	if loader == api.LoaderNone {
		return src, nil
	}

	result := api.Transform(src, api.TransformOptions{
		Loader:     loader,
		Sourcefile: path,
		Target:     api.ESNext,
		JSX:        api.JSXAutomatic,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("esbuild errors:\n%s", FormatMessages(result.Errors))
	}
	return string(result.Code), nil
}

// Parse parses JavaScript module source.
func Parse(path, code string) (*js.AST, error) {
	tree, err := js.Parse(parse.NewInputString(code), js.Options{})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

// Print renders tree as JavaScript source terminated by a newline.
func Print(tree *js.AST) string {
	var sb strings.Builder
	tree.JS(&sb)
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatMessages renders esbuild messages as file:line:col: text lines.
func FormatMessages(msgs []api.Message) string {
	var sb strings.Builder
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			fmt.Fprintf(&sb, "%s:%d:%d: %s\n", loc.File, loc.Line, loc.Column, msg.Text)
		} else {
			fmt.Fprintf(&sb, "%s\n", msg.Text)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
