package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/jsonc"
)

// SearchPlaces are the config file names looked for in each directory, in
// order. package.json only counts when it has a "relay" key.
var SearchPlaces = []string{
	"relay.config.json",
	".relayrc",
	".relayrc.json",
	".relayrc.yaml",
	".relayrc.yml",
	"relay.config.yaml",
	"relay.config.yml",
	"package.json",
}

// PackageJSONKey is the package.json key holding relay configuration.
const PackageJSONKey = "relay"

// MaxSearchLevels limits how far up the directory tree FindConfigFile looks.
const MaxSearchLevels = 10

// ReadFile reads the relay settings stored in path. ok is false when path is
// a package.json without a relay key.
func ReadFile(path string) (values map[string]any, ok bool, err error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, false, err
	}

	// The YAML parser reads JSON once comments and trailing commas are gone.
	if isJSON(path, data) {
		data = jsonc.ToJSON(data)
	}
	values, err = yaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}

	if filepath.Base(path) != "package.json" {
		return values, true, nil
	}
	section, found := values[PackageJSONKey]
	if !found {
		return nil, false, nil
	}
	relay, isMap := section.(map[string]any)
	if !isMap {
		return nil, false, fmt.Errorf("%s: %q must be an object", path, PackageJSONKey)
	}
	return relay, true, nil
}

func isJSON(path string, data []byte) bool {
	switch filepath.Ext(path) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// FindConfigFile returns the first config file in dir, or "" when there is
// none.
func FindConfigFile(dir string) (string, map[string]any, error) {
	for _, name := range SearchPlaces {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}
		values, ok, err := ReadFile(candidate)
		if err != nil {
			return "", nil, err
		}
		if ok {
			return candidate, values, nil
		}
	}
	return "", nil, nil
}

// SearchUpward looks for a config file in startDir and its parents, at most
// MaxSearchLevels directories. It returns "" when nothing is found.
func SearchUpward(startDir string) (string, map[string]any, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", nil, err
	}
	for i := 0; i < MaxSearchLevels; i++ {
		path, values, err := FindConfigFile(dir)
		if err != nil || path != "" {
			return path, values, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return "", nil, nil
}

// FindProjectRoot walks up from startDir to the directory holding the
// nearest config file. Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	path, _, err := SearchUpward(startDir)
	if err != nil || path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// Decode unmarshals the koanf tree into out. Comma separated strings decode
// into slices so that list settings work from environment variables.
func Decode(k *koanf.Koanf, out any) error {
	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           out,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
}

// LoadFromDir loads the ProjectConfig that applies to dir, searching upward.
// A relative artifactDirectory is resolved against the config file's
// directory. Returns defaults and "" when no config file is found.
func LoadFromDir(dir string) (*ProjectConfig, string, error) {
	path, values, err := SearchUpward(dir)
	if err != nil {
		return nil, "", err
	}
	cfg, err := fromValues(values, path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadFile loads the ProjectConfig stored in path.
func LoadFile(path string) (*ProjectConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	values, ok, err := ReadFile(abs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s has no %q section", path, PackageJSONKey)
	}
	return fromValues(values, abs)
}

func fromValues(values map[string]any, path string) (*ProjectConfig, error) {
	k := koanf.New(".")
	if values != nil {
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, err
		}
	}

	var cfg ProjectConfig
	if err := Decode(k, &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if path != "" {
		cfg.ArtifactDirectory = ResolvePath(cfg.ArtifactDirectory, filepath.Dir(path))
	}
	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath resolves path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
