// Package runner orchestrates the parse -> lint -> fix -> output pipeline.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/cache"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/linter"
	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/rules"
	"github.com/rwwagner90/eslint-plugin-decorator-position/pkg/diff"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitViolation = 1
	ExitError     = 2
)

const (
	progName   = "decorator-position"
	stdinName  = "<stdin>"
	devVersion = "dev"
)

// Options configures the runner behavior.
type Options struct {
	Files      []string
	Check      bool
	Diff       bool
	Fix        bool
	ConfigPath string
	Quiet      bool
	Verbose    bool
	Jobs       int    // Files linted concurrently; GOMAXPROCS when <= 0.
	Cache      bool   // Skip files recorded clean by a previous run.
	CachePath  string // Defaults to cache.DefaultLocation.
	Color      bool
	Version    string // Mixed into the cache key; "dev" disables the cache.
	Commit     string // Mixed into the cache key.
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// result is the outcome of processing one input.
type result struct {
	path    string
	input   string
	output  string // Equal to input unless fixes were applied.
	reports []linter.Report
	passes  int
	cached  bool
	err     error
}

// Run executes the lint pipeline and returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		writeErr(opts.Stderr, "%s: %v\n", progName, err)
		return ExitError
	}

	active := rules.Activate(cfg)
	p := newPrinter(opts.Stdout, opts.Color)

	// stdin mode: no files given.
	if len(opts.Files) == 0 {
		return runStdin(opts, p, active)
	}

	files, code := expandFiles(opts, cfg.Files)

	c := openCache(opts, cfg)
	results := processFiles(ctx, opts, c, active, files)

	var problems, fixable int
	for _, res := range results {
		fileCode := emit(opts, p, res)
		code = max(code, fileCode)
		problems += len(res.reports)
		fixable += countFixable(res.reports)
	}

	if err := c.Save(); err != nil {
		writeErr(opts.Stderr, "%s: %v\n", progName, err)
	}

	if !opts.Check && !opts.Diff && !opts.Quiet && problems > 0 {
		p.summary(problems, fixable)
	}
	return code
}

func runStdin(opts *Options, p *printer, active []linter.Rule) int {
	src, err := io.ReadAll(opts.Stdin)
	if err != nil {
		writeErr(opts.Stderr, "%s: reading stdin: %v\n", progName, err)
		return ExitError
	}

	res := process(opts, nil, active, stdinName, string(src))
	if res.err != nil {
		writeErr(opts.Stderr, "%s: %s: %v\n", progName, stdinName, res.err)
		return ExitError
	}

	switch {
	case opts.Check:
		if len(res.reports) > 0 {
			return ExitViolation
		}
		return ExitOK

	case opts.Diff:
		if d := diff.Unified(stdinName, res.input, res.output); d != "" {
			writeOut(opts.Stdout, d)
			return ExitViolation
		}
		return ExitOK

	case opts.Fix:
		writeOut(opts.Stdout, res.output)
		if len(res.reports) > 0 {
			// Reports go to stderr so stdout stays the fixed source.
			ep := newPrinter(opts.Stderr, false)
			for _, r := range res.reports {
				ep.report(stdinName, res.output, r)
			}
			return ExitViolation
		}
		return ExitOK
	}

	for _, r := range res.reports {
		p.report(stdinName, res.input, r)
	}
	if len(res.reports) > 0 {
		if !opts.Quiet {
			p.summary(len(res.reports), countFixable(res.reports))
		}
		return ExitViolation
	}
	return ExitOK
}

// processFiles lints files concurrently and returns results in input order.
func processFiles(ctx context.Context, opts *Options, c *cache.Cache, active []linter.Rule, files []string) []result {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index.
	results := make([]result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(files)), 1))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = result{path: path, err: err}
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = result{path: path, err: err}
				return nil
			}
			results[i] = process(opts, c, active, path, string(src))
			return nil
		})
	}
	// Per-file errors live in results; the group itself never fails.
	_ = g.Wait()

	return results
}

// process lints or fixes one source according to the mode.
func process(opts *Options, c *cache.Cache, active []linter.Rule, path, src string) result {
	res := result{path: path, input: src, output: src}
	key := cacheKey(path)

	if !opts.Fix && !opts.Diff && c.IsClean(key, []byte(src)) {
		res.cached = true
		return res
	}

	if opts.Fix || opts.Diff {
		fixed, err := linter.FixLoop(src, active)
		if err != nil {
			res.err = err
			return res
		}
		res.output = fixed.Output
		res.reports = fixed.Reports
		res.passes = fixed.Passes
	} else {
		reports, err := linter.Lint(src, active)
		if err != nil {
			res.err = err
			return res
		}
		res.reports = reports
	}

	// Diff mode does not write files, so its fixed output says nothing
	// about the file on disk.
	switch {
	case opts.Diff:
	case len(res.reports) == 0:
		c.MarkClean(key, []byte(res.output))
	default:
		c.Forget(key)
	}
	return res
}

// emit prints one file's result and returns its exit code.
func emit(opts *Options, p *printer, res result) int {
	if res.err != nil {
		writeErr(opts.Stderr, "%s: %s: %v\n", progName, res.path, res.err)
		return ExitError
	}

	if opts.Verbose {
		switch {
		case res.cached:
			writeErr(opts.Stderr, "%s (cached)\n", res.path)
		case opts.Fix:
			writeErr(opts.Stderr, "%s (%d fix passes)\n", res.path, res.passes)
		default:
			writeErr(opts.Stderr, "%s\n", res.path)
		}
	}

	switch {
	case opts.Check:
		if len(res.reports) > 0 {
			if !opts.Quiet {
				writeErr(opts.Stderr, "%s\n", res.path)
			}
			return ExitViolation
		}
		return ExitOK

	case opts.Diff:
		if d := diff.Unified(res.path, res.input, res.output); d != "" {
			writeOut(opts.Stdout, d)
			return ExitViolation
		}
		return ExitOK

	case opts.Fix:
		if res.output != res.input {
			if err := os.WriteFile(res.path, []byte(res.output), 0o644); err != nil {
				writeErr(opts.Stderr, "%s: writing %s: %v\n", progName, res.path, err)
				return ExitError
			}
		}
	}

	src := res.input
	if opts.Fix {
		src = res.output
	}
	for _, r := range res.reports {
		p.report(res.path, src, r)
	}
	if len(res.reports) > 0 {
		return ExitViolation
	}
	return ExitOK
}

func openCache(opts *Options, cfg *config.Config) *cache.Cache {
	if !opts.Cache {
		return nil
	}

	// Rule logic of a development build can change without a version bump.
	if opts.Version == devVersion {
		if opts.Verbose {
			writeErr(opts.Stderr, "%s: cache disabled for development builds\n", progName)
		}
		return nil
	}

	path := opts.CachePath
	if path == "" {
		path = cache.DefaultLocation
	}

	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		writeErr(opts.Stderr, "%s: cache disabled: %v\n", progName, err)
		return nil
	}

	c, err := cache.Open(path, opts.Version+":"+opts.Commit+":"+fingerprint)
	if err != nil {
		writeErr(opts.Stderr, "%s: %v\n", progName, err)
	}
	return c
}

// cacheKey identifies a file in the cache independent of the working
// directory the tool runs from.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func countFixable(reports []linter.Report) int {
	n := 0
	for _, r := range reports {
		if r.Fixable() {
			n++
		}
	}
	return n
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
