// Package engine runs the graphql tag transform over files on disk.
// It handles discovery, per-file module kinds and parallel execution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/leapstack-labs/leaprelay/internal/config"
	"github.com/leapstack-labs/leaprelay/internal/source"
	"github.com/leapstack-labs/leaprelay/pkg/transform"
	"golang.org/x/sync/errgroup"
)

// Engine transforms source files with a single shared Transformer.
type Engine struct {
	transformer *transform.Transformer
	logger      *slog.Logger

	module     string
	jobs       int
	extensions map[string]bool
	exclude    map[string]bool
}

// Config holds engine configuration.
type Config struct {
	// Transform is the project configuration handed to the transformer
	Transform transform.Config
	// Module is "auto", "esm" or "commonjs" (auto when empty)
	Module string
	// Builder selects the node builder: "factory" or "snippet"
	Builder string
	// Jobs bounds the number of files transformed at once (GOMAXPROCS when <= 0)
	Jobs int
	// Extensions limits discovery to these extensions (all source extensions when empty)
	Extensions []string
	// Exclude lists directory names skipped during discovery
	Exclude []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	Path   string // absolute source path
	Output string // path of the emitted JavaScript file
	Module transform.ModuleKind
	Sites  []transform.Site
	Code   string // emitted JavaScript
	Err    error
}

// Changed reports whether any graphql tag was rewritten.
func (r *FileResult) Changed() bool {
	return len(r.Sites) > 0
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	module := strings.ToLower(strings.TrimSpace(cfg.Module))
	if module == "" {
		module = config.ModuleAuto
	}
	if module != config.ModuleAuto {
		if _, err := transform.ParseModuleKind(module); err != nil {
			return nil, err
		}
	}

	builder, err := transform.NewBuilder(cfg.Builder)
	if err != nil {
		return nil, err
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = source.Extensions()
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !source.IsSource("file" + ext) {
			return nil, fmt.Errorf("unsupported source extension %q", ext)
		}
		exts[ext] = true
	}

	exclude := cfg.Exclude
	if len(exclude) == 0 {
		exclude = config.DefaultExcludeDirs
	}
	excl := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		excl[dir] = true
	}

	logger.Debug("initializing engine",
		"artifact_directory", cfg.Transform.ArtifactDirectory,
		"module", module,
		"builder", fmt.Sprintf("%T", builder),
		"jobs", jobs,
	)

	return &Engine{
		transformer: transform.New(transform.Options{
			Config:  cfg.Transform,
			Factory: builder,
			Logger:  logger,
		}),
		logger:     logger,
		module:     module,
		jobs:       jobs,
		extensions: exts,
		exclude:    excl,
	}, nil
}

// Config returns the transform configuration in use.
func (e *Engine) Config() transform.Config {
	return e.transformer.Config()
}

// ModuleKindFor returns the module kind used for path. A fixed module kind
// applies to every file; in auto mode .cjs and .cts files are CommonJS and
// everything else is an ES module.
func (e *Engine) ModuleKindFor(path string) transform.ModuleKind {
	if e.module != config.ModuleAuto {
		kind, _ := transform.ParseModuleKind(e.module)
		return kind
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cjs", ".cts":
		return transform.CommonJS
	default:
		return transform.ESModule
	}
}

// TransformSource transforms src as if it had been read from path, using the
// module kind derived from path.
func (e *Engine) TransformSource(path, src string) (*FileResult, error) {
	return e.TransformSourceAs(path, src, e.ModuleKindFor(path))
}

// TransformSourceAs transforms src with an explicit module kind.
func (e *Engine) TransformSourceAs(path, src string, kind transform.ModuleKind) (*FileResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	unit, err := source.LoadSource(abs, src)
	if err != nil {
		return nil, err
	}
	return e.transformUnit(unit, kind)
}

// TransformFile reads and transforms one file.
func (e *Engine) TransformFile(path string) (*FileResult, error) {
	unit, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return e.transformUnit(unit, e.ModuleKindFor(unit.Path))
}

func (e *Engine) transformUnit(unit *source.Unit, kind transform.ModuleKind) (*FileResult, error) {
	out, result, err := e.transformer.Transform(transform.File{
		Path:   unit.Path,
		Module: kind,
		AST:    unit.AST,
	})
	if err != nil {
		return nil, err
	}

	res := &FileResult{
		Path:   unit.Path,
		Output: source.OutputPath(unit.Path),
		Module: kind,
		Sites:  result.Sites,
		Code:   unit.Code,
	}
	if result.Changed() {
		res.Code = source.Print(out)
	}

	e.logger.Debug("transformed file", "path", unit.Path, "module", kind.String(), "tags", len(res.Sites))
	return res, nil
}

// TransformFiles transforms paths in parallel. The first failure cancels the
// remaining files and is returned. Results are in the order of paths.
func (e *Engine) TransformFiles(ctx context.Context, paths []string) ([]*FileResult, error) {
	results := make([]*FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.TransformFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckFiles transforms every path and records per-file failures in
// FileResult.Err instead of stopping. The returned error is non-nil only when
// ctx is cancelled.
func (e *Engine) CheckFiles(ctx context.Context, paths []string) ([]*FileResult, error) {
	results := make([]*FileResult, len(paths))

	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.TransformFile(path)
			if err != nil {
				res = &FileResult{Path: path, Output: source.OutputPath(path), Err: err}
				mu.Lock()
				failed++
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("checked files", "files", len(paths), "failed", failed)
	return results, nil
}

// Failures returns the errors recorded in results, joined.
func Failures(results []*FileResult) error {
	var errs []error
	for _, r := range results {
		if r != nil && r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
