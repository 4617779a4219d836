package config

// Default configuration values.
const (
	ModuleAuto     = "auto"
	ModuleESM      = "esm"
	ModuleCommonJS = "commonjs"

	BuilderFactory = "factory"
	BuilderSnippet = "snippet"

	DefaultModule  = ModuleAuto
	DefaultBuilder = BuilderFactory
)

// DefaultExcludeDirs are the directory names never descended into during
// discovery.
var DefaultExcludeDirs = []string{"node_modules", "__generated__"}

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Module == "" {
		c.Module = DefaultModule
	}
	if c.Builder == "" {
		c.Builder = DefaultBuilder
	}
	if len(c.Exclude) == 0 {
		c.Exclude = append([]string(nil), DefaultExcludeDirs...)
	}
}
