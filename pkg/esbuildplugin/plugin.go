// Package esbuildplugin runs the graphql tag transform inside esbuild builds.
//
// Every JavaScript or TypeScript file that mentions graphql is lowered,
// transformed and handed back to esbuild as plain JavaScript. Other files are
// left to esbuild's own loaders.
package esbuildplugin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/leapstack-labs/leaprelay/internal/config"
	"github.com/leapstack-labs/leaprelay/internal/engine"
	"github.com/leapstack-labs/leaprelay/pkg/transform"
)

// Name is the plugin name reported by esbuild.
const Name = "leaprelay"

// Filter matches the files the plugin loads.
const Filter = `\.(m|c)?(j|t)sx?$`

// Options configures the plugin.
type Options struct {
	// Config is the transform configuration shared by every file
	Config transform.Config
	// Module forces "esm" or "commonjs". Empty follows the build format, and
	// file extensions when the format is neither.
	Module string
	// Builder selects the node builder: "factory" (default) or "snippet"
	Builder string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Load builds Options from the relay configuration that applies to dir.
func Load(dir string) (Options, error) {
	cfg, _, err := config.LoadFromDir(dir)
	if err != nil {
		return Options{}, err
	}
	opts := Options{Config: cfg.TransformConfig(), Builder: cfg.Builder}
	if cfg.Module != config.ModuleAuto {
		opts.Module = cfg.Module
	}
	return opts, nil
}

// New returns the esbuild plugin.
func New(opts Options) api.Plugin {
	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			logger := opts.Logger
			if logger == nil {
				logger = slog.New(slog.DiscardHandler)
			}

			eng, err := engine.New(engine.Config{
				Transform: opts.Config,
				Module:    config.ModuleAuto,
				Builder:   opts.Builder,
				Jobs:      1,
				Logger:    logger,
			})
			if err == nil && opts.Module != "" {
				_, err = transform.ParseModuleKind(opts.Module)
			}
			if err != nil {
				setupErr := err
				build.OnStart(func() (api.OnStartResult, error) {
					return api.OnStartResult{}, fmt.Errorf("%s: %w", Name, setupErr)
				})
				return
			}

			format := build.InitialOptions.Format
			l := &loader{engine: eng, logger: logger, module: opts.Module, format: format}
			build.OnLoad(api.OnLoadOptions{Filter: Filter, Namespace: "file"}, l.load)
		},
	}
}

type loader struct {
	engine *engine.Engine
	logger *slog.Logger
	module string
	format api.Format
}

// moduleKind picks the binding shape for path.
func (l *loader) moduleKind(path string) transform.ModuleKind {
	if l.module != "" {
		kind, _ := transform.ParseModuleKind(l.module)
		return kind
	}
	switch l.format {
	case api.FormatCommonJS:
		return transform.CommonJS
	case api.FormatESModule:
		return transform.ESModule
	}
	return l.engine.ModuleKindFor(path)
}

func (l *loader) load(args api.OnLoadArgs) (api.OnLoadResult, error) {
	if strings.HasSuffix(args.Path, ".d.ts") || isDependency(args.Path) {
		return api.OnLoadResult{}, nil
	}

	data, err := os.ReadFile(args.Path) //nolint:gosec // G304: path is resolved by esbuild
	if err != nil {
		return api.OnLoadResult{}, err
	}
	src := string(data)
	if !strings.Contains(src, transform.MarkerTag) {
		// Returning no contents lets esbuild load the file itself.
		return api.OnLoadResult{}, nil
	}

	res, err := l.engine.TransformSourceAs(args.Path, src, l.moduleKind(args.Path))
	if err != nil {
		return api.OnLoadResult{Errors: []api.Message{errorMessage(args.Path, err)}}, nil
	}
	if !res.Changed() && res.Code == src {
		return api.OnLoadResult{}, nil
	}

	l.logger.Debug("esbuild load", "path", args.Path, "tags", len(res.Sites))
	contents := res.Code
	return api.OnLoadResult{
		Contents:   &contents,
		ResolveDir: filepath.Dir(args.Path),
		Loader:     api.LoaderJS,
		PluginName: Name,
	}, nil
}

func isDependency(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "node_modules" {
			return true
		}
	}
	return false
}

func errorMessage(path string, err error) api.Message {
	msg := api.Message{
		PluginName: Name,
		Text:       err.Error(),
		Location:   &api.Location{File: path},
	}
	var markerErr *transform.MarkerError
	if errors.As(err, &markerErr) {
		msg.Text = fmt.Sprintf("graphql tag #%d: %v", markerErr.Index, markerErr.Err)
	}
	return msg
}
