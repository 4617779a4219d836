package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaprelay/internal/cli/output"
	"github.com/leapstack-labs/leaprelay/internal/engine"
	"github.com/spf13/cobra"
)

// TransformResultJSON is one transformed file in JSON output.
type TransformResultJSON struct {
	File    string     `json:"file"`
	Output  string     `json:"output"`
	Module  string     `json:"module"`
	Sites   []SiteJSON `json:"sites"`
	Code    string     `json:"code,omitempty"`
	Written bool       `json:"written"`
}

// SiteJSON is one rewritten graphql tag in JSON output.
type SiteJSON struct {
	Definition string `json:"definition"`
	Kind       string `json:"kind"`
	Artifact   string `json:"artifact"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "transform [paths...]",
		Short: "Rewrite graphql tags into artifact imports",
		Long: `Transform discovers JavaScript and TypeScript sources under the given paths
(default: the current directory), replaces every graphql tagged template with
an identifier bound to its generated artifact and emits JavaScript.

A single file is printed to stdout. With --out-dir the results are written as
a mirrored tree; TypeScript and JSX sources are emitted as .js, .mjs or .cjs.`,
		Example: `  leaprelay transform src/Profile.js
  leaprelay transform src --out-dir dist --module commonjs
  leaprelay transform --artifact-directory src/__generated__ -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write transformed files under this directory")

	return cmd
}

func runTransform(cmd *cobra.Command, args []string, outDir string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	paths, err := cc.Engine.Discover(discoveryRoots(cc, args)...)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no source files found")
	}

	results, err := cc.Engine.TransformFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}

	written := map[string]string{}
	if outDir != "" {
		written, err = writeResults(results, outDir, cc.Cfg.ProjectRoot)
		if err != nil {
			return err
		}
	}

	tags := 0
	for _, res := range results {
		tags += len(res.Sites)
	}
	cc.Logger.Info("transform complete", "files", len(results), "tags", tags, "written", len(written))

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]TransformResultJSON, len(results))
		for i, res := range results {
			out[i] = transformResultJSON(res, written[res.Path], outDir == "")
		}
		return r.JSON(out)
	}

	switch {
	case outDir != "":
		rows := make([][]string, len(results))
		for i, res := range results {
			rows[i] = []string{res.Path, written[res.Path], strconv.Itoa(len(res.Sites))}
		}
		r.Table([]string{"Source", "Output", "Tags"}, rows)
		r.Success(fmt.Sprintf("Transformed %d files (%d graphql tags)", len(results), tags))
	case len(results) == 1:
		_, _ = fmt.Fprint(r.Writer(), results[0].Code)
	default:
		for _, res := range results {
			r.Println(output.FormatHeader(2, res.Output))
			r.Println("")
			r.Println(output.FormatCodeBlock("js", res.Code))
			r.Println("")
		}
	}
	return nil
}

func transformResultJSON(res *engine.FileResult, writtenTo string, withCode bool) TransformResultJSON {
	out := TransformResultJSON{
		File:    res.Path,
		Output:  res.Output,
		Module:  res.Module.String(),
		Sites:   sitesJSON(res),
		Written: writtenTo != "",
	}
	if writtenTo != "" {
		out.Output = writtenTo
	}
	if withCode {
		out.Code = res.Code
	}
	return out
}

func sitesJSON(res *engine.FileResult) []SiteJSON {
	sites := make([]SiteJSON, len(res.Sites))
	for i, site := range res.Sites {
		sites[i] = SiteJSON{
			Definition: site.Definition.Name,
			Kind:       string(site.Definition.Kind),
			Artifact:   site.Reference.Path,
		}
	}
	return sites
}

// writeResults writes each result under outDir, mirroring its location
// relative to base. base is the project root when every source lives inside
// it, otherwise the deepest directory shared by all sources.
func writeResults(results []*engine.FileResult, outDir, projectRoot string) (map[string]string, error) {
	outDir, err := filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}

	outputs := make([]string, len(results))
	for i, res := range results {
		outputs[i] = res.Output
	}
	base := projectRoot
	if base == "" || !allWithin(base, outputs) {
		base = commonDir(outputs)
	}

	written := make(map[string]string, len(results))
	for _, res := range results {
		rel, err := filepath.Rel(base, res.Output)
		if err != nil {
			return nil, fmt.Errorf("relating %s to %s: %w", res.Output, base, err)
		}
		dest := filepath.Join(outDir, rel)
		if dest == res.Path {
			return nil, fmt.Errorf("refusing to overwrite source file %s", res.Path)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(dest, []byte(res.Code), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", dest, err)
		}
		written[res.Path] = dest
	}
	return written, nil
}

func allWithin(dir string, paths []string) bool {
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func commonDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for !allWithin(dir, []string{p}) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}
