// Package artifact computes the module specifiers used to import generated
// GraphQL artifacts from a source file.
package artifact

import (
	"path"
	"path/filepath"
	"strings"
)

// Extension is appended to a definition name to form the artifact file name.
const Extension = "graphql"

// GeneratedDir is the conventional artifact folder next to each source file,
// used when no artifact directory is configured.
const GeneratedDir = "./__generated__/"

// Reference identifies the artifact module bound for one graphql tag.
type Reference struct {
	Path           string // relative module specifier, always starts with ./ or ../
	DefinitionName string
}

// FileName returns the artifact file name for a definition.
func FileName(definitionName string) string {
	return definitionName + "." + Extension
}

// Resolve builds the Reference for a definition found in sourceFile.
// An empty artifactDir selects the GeneratedDir convention.
func Resolve(sourceFile, artifactDir, definitionName string) Reference {
	return Reference{
		Path:           ResolvePath(sourceFile, artifactDir, FileName(definitionName)),
		DefinitionName: definitionName,
	}
}

// ResolvePath returns the specifier sourceFile uses to import fileName.
//
// Without an artifact directory the result is GeneratedDir + fileName.
// Otherwise it is the path from the source file's directory to the artifact
// directory joined with fileName. Relative inputs are made absolute against
// the working directory; the file system is never consulted.
func ResolvePath(sourceFile, artifactDir, fileName string) string {
	if artifactDir == "" {
		return GeneratedDir + fileName
	}

	rel, err := filepath.Rel(filepath.Dir(absolute(sourceFile)), absolute(artifactDir))
	if err != nil {
		// Only reachable across volumes on Windows; fall back to the absolute directory.
		rel = absolute(artifactDir)
	}
	rel = filepath.ToSlash(rel)

	return relativeSpecifier(rel, fileName)
}

// relativeSpecifier joins dir and fileName, forcing a ./ prefix so the result
// can never be mistaken for a bare package name.
func relativeSpecifier(dir, fileName string) string {
	joined := path.Join(dir, fileName)
	if dir == ".." || strings.HasPrefix(dir, "../") {
		return joined
	}
	return "./" + joined
}

func absolute(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
