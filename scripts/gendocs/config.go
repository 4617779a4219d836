package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	cliconfig "github.com/leapstack-labs/leaprelay/internal/cli/config"
	intconfig "github.com/leapstack-labs/leaprelay/internal/config"
)

// ConfigField documents one relay configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Env         string
	Flag        string
	Description string
}

// getConfigSchema returns the configuration keys. Defaults come from
// internal/config so the page never drifts from the loader.
func getConfigSchema() []ConfigField {
	fields := []ConfigField{
		{Name: "artifactDirectory", Type: "string", Flag: "--artifact-directory",
			Description: "Directory holding generated artifacts. Relative paths resolve against the config file. Empty imports from ./__generated__ next to each source."},
		{Name: "module", Type: "string", Default: intconfig.DefaultModule, Flag: "--module",
			Description: "esm emits import declarations, commonjs emits require calls, auto picks commonjs for .cjs and .cts files."},
		{Name: "builder", Type: "string", Default: intconfig.DefaultBuilder, Flag: "--builder",
			Description: "factory builds syntax nodes directly; snippet renders source text and parses it back."},
		{Name: "extensions", Type: "[]string", Flag: "--extensions",
			Description: "Source extensions to discover. Defaults to every JavaScript and TypeScript extension."},
		{Name: "exclude", Type: "[]string", Default: strings.Join(intconfig.DefaultExcludeDirs, ","), Flag: "--exclude",
			Description: "Directory names never descended into during discovery."},
	}
	for i := range fields {
		fields[i].Env = envName(fields[i].Name)
	}
	return fields
}

// envName returns the environment variable read for a config key:
// artifactDirectory becomes LEAPRELAY_ARTIFACT_DIRECTORY.
func envName(key string) string {
	var sb strings.Builder
	sb.WriteString(cliconfig.EnvPrefix)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "leaprelay configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leaprelay reads the same configuration as the relay compiler. The first of these files found in the project directory or its parents is used:")

	var places []string
	for _, name := range intconfig.SearchPlaces {
		places = append(places, InlineCode(name))
	}
	w.BulletList(places)
	w.Paragraph(fmt.Sprintf("In %s only the %s key is read. JSON files may contain comments and trailing commas.",
		InlineCode("package.json"), InlineCode(intconfig.PackageJSONKey)))

	w.Header(2, "Keys")
	headers := []string{"Key", "Type", "Default", "Environment", "Flag", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := f.Default
		if defVal == "" {
			defVal = "-"
		}
		rows = append(rows, []string{
			InlineCode(f.Name),
			f.Type,
			InlineCode(defVal),
			InlineCode(f.Env),
			InlineCode(f.Flag),
			cleanDescription(f.Description),
		})
	}
	w.Table(headers, rows)

	w.Header(2, "Precedence")
	w.Paragraph("Flags override environment variables, which override the config file, which overrides the defaults. A .env file in the project root is loaded before the environment is read and never replaces variables that are already set.")

	w.Header(2, "Example")
	w.CodeBlock("json", `{
  "artifactDirectory": "./src/__generated__",
  "module": "esm"
}`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
