package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/leaprelay/internal/cli"
	"github.com/leapstack-labs/leaprelay/internal/cli/commands"
	intconfig "github.com/leapstack-labs/leaprelay/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// jsonOutputs are the documents printed by commands under -o json, keyed by
// command name. The values are the examples shown on each page.
var jsonOutputs = map[string]any{
	"transform": []commands.TransformResultJSON{{
		File:    "/app/src/Profile.js",
		Output:  "/app/dist/src/Profile.js",
		Module:  "esm",
		Sites:   []commands.SiteJSON{{Definition: "Profile_user", Kind: "fragment", Artifact: "./__generated__/Profile_user.graphql"}},
		Written: true,
	}},
	"check": commands.CheckOutputJSON{
		Files: []commands.CheckResultJSON{
			{File: "/app/src/Profile.js", Sites: []commands.SiteJSON{{Definition: "Profile_user", Kind: "fragment", Artifact: "./__generated__/Profile_user.graphql"}}},
			{File: "/app/src/bad.js", Sites: []commands.SiteJSON{}, Error: "graphql tag #1: graphql operations and fragments must contain names"},
		},
		Tags:   1,
		Failed: 1,
	},
}

// docCommands returns the commands that get a page.
func docCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// generateCLIDocs writes the CLI overview and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(rootCmd)}
	for _, cmd := range docCommands(rootCmd) {
		page, err := commandPage(cmd)
		if err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		pages[cmd.Name()+".md"] = page
	}

	for name, page := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), page, 0600); err != nil {
			return err
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func cliIndex(rootCmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leaprelay")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(rootCmd.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leaprelay/cmd/leaprelay@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range docCommands(rootCmd) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Config Discovery")
	w.Paragraph("Without --config the project directory and its parents are searched for, in order:")
	var places []string
	for _, name := range intconfig.SearchPlaces {
		places = append(places, InlineCode(name))
	}
	w.BulletList(places)
	w.Paragraph("See the [configuration reference](/reference/configuration) for the keys.")

	w.Header(2, "Environment Variables")
	w.Paragraph("A .env file in the project root is loaded first. Flags take precedence over the environment.")
	var envRows [][]string
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(f.Env), InlineCode(f.Flag)})
	}
	for _, name := range []string{"jobs", "output", "verbose"} {
		envRows = append(envRows, []string{InlineCode(envName(name)), InlineCode("--" + name)})
	}
	w.Table([]string{"Variable", "Flag"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Every graphql tag is valid and all output was written"},
		{InlineCode("1"), "An invalid tag, a config error or an I/O error; details on stderr"},
	})

	return w.Bytes()
}

func commandPage(cmd *cobra.Command) ([]byte, error) {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", "leaprelay "+cmd.Use)

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		var lines []string
		for _, line := range strings.Split(cmd.Example, "\n") {
			lines = append(lines, strings.TrimSpace(line))
		}
		w.CodeBlock("bash", strings.Join(lines, "\n"))
	}

	if sample, ok := jsonOutputs[cmd.Name()]; ok {
		w.Header(2, "JSON Output")
		w.Paragraph(fmt.Sprintf("With %s the command prints one document to stdout:", InlineCode("-o json")))
		w.Table([]string{"Field", "Type"}, jsonFields(reflect.TypeOf(sample), ""))

		data, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, err
		}
		w.CodeBlock("json", string(data))
	}

	return w.Bytes(), nil
}

// jsonFields lists the fields of a JSON document type as dotted paths. Array
// elements are written as "[]".
func jsonFields(t reflect.Type, prefix string) [][]string {
	for t.Kind() == reflect.Slice {
		t = t.Elem()
		prefix += "[]"
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var rows [][]string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		rows = append(rows, []string{InlineCode(path), jsonType(f.Type)})
		rows = append(rows, jsonFields(f.Type, path)...)
	}
	return rows
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64:
		return "number"
	case reflect.Slice:
		return jsonType(t.Elem()) + "[]"
	default:
		return "object"
	}
}

// writeFlagsTable writes one row per visible flag.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && def != "[]" && def != "0" && def != "false" {
			def = InlineCode(def)
		} else {
			def = ""
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}
