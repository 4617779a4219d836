package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaprelay/internal/cli/output"
	"github.com/leapstack-labs/leaprelay/internal/engine"
	"github.com/spf13/cobra"
)

// CheckResultJSON is one checked file in JSON output.
type CheckResultJSON struct {
	File  string     `json:"file"`
	Sites []SiteJSON `json:"sites"`
	Error string     `json:"error,omitempty"`
}

// CheckOutputJSON is the JSON document printed by check.
type CheckOutputJSON struct {
	Files  []CheckResultJSON `json:"files"`
	Tags   int               `json:"tags"`
	Failed int               `json:"failed"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate graphql tags without writing output",
		Long: `Check extracts and validates every graphql tag under the given paths and
reports the definition and artifact each one resolves to. Every file is
checked even when earlier files fail; the command exits non-zero when any
file has an invalid tag.`,
		Example: `  leaprelay check
  leaprelay check src -o json`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	if err := cc.Cfg.ValidateDirectories(); err != nil {
		r.Warning(err.Error())
	}

	paths, err := cc.Engine.Discover(discoveryRoots(cc, args)...)
	if err != nil {
		return err
	}

	results, err := cc.Engine.CheckFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}

	tags, failed := 0, 0
	for _, res := range results {
		tags += len(res.Sites)
		if res.Err != nil {
			failed++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(checkOutputJSON(results, tags, failed)); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Header(1, "graphql tags")
		renderCheckTable(r, results)
		r.Println("")
		r.Println(output.FormatKeyValue("Files", fmt.Sprint(len(results))))
		r.Println(output.FormatKeyValue("Tags", fmt.Sprint(tags)))
		r.Println(output.FormatKeyValue("Failed", fmt.Sprint(failed)))
	default:
		renderCheckStatus(r, results)
	}

	if r.EffectiveMode() != output.ModeText {
		for _, res := range results {
			if res.Err != nil {
				r.Error(res.Err.Error())
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files have invalid graphql tags", failed, len(results))
	}
	r.Success(fmt.Sprintf("%d graphql tags in %d files are valid", tags, len(results)))
	return nil
}

func renderCheckTable(r *output.Renderer, results []*engine.FileResult) {
	var rows [][]string
	for _, res := range results {
		if res.Err != nil {
			rows = append(rows, []string{res.Path, "", "", "", "failed"})
			continue
		}
		for _, site := range res.Sites {
			rows = append(rows, []string{
				res.Path,
				site.Definition.Name,
				string(site.Definition.Kind),
				site.Reference.Path,
				"ok",
			})
		}
	}
	if len(rows) == 0 {
		r.Muted("no graphql tags found")
		return
	}
	r.Table([]string{"File", "Definition", "Kind", "Artifact", "Status"}, rows)
}

// renderCheckStatus writes one status line per file with its error inline.
func renderCheckStatus(r *output.Renderer, results []*engine.FileResult) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			r.StatusLine(res.Path, "failed", res.Err.Error())
		case len(res.Sites) == 0:
			r.StatusLine(res.Path, "skipped", "no graphql tags")
		default:
			names := make([]string, len(res.Sites))
			for i, site := range res.Sites {
				names[i] = site.Definition.Name
			}
			r.StatusLine(res.Path, "success", strings.Join(names, ", "))
		}
	}
}

func checkOutputJSON(results []*engine.FileResult, tags, failed int) CheckOutputJSON {
	out := CheckOutputJSON{
		Files:  make([]CheckResultJSON, len(results)),
		Tags:   tags,
		Failed: failed,
	}
	for i, res := range results {
		out.Files[i] = CheckResultJSON{File: res.Path, Sites: sitesJSON(res)}
		if res.Err != nil {
			out.Files[i].Error = res.Err.Error()
		}
	}
	return out
}
