package runner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/rwwagner90/eslint-plugin-decorator-position/internal/rules" // Register rules via init().
)

const (
	badSource   = "class A {\n  @tracked\n  foo;\n}\n"
	fixedSource = "class A {\n  @tracked foo;\n}\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{path},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("exit code: got %d, want %d", code, ExitViolation)
	}

	want := fmt.Sprintf("%s:2:3: Expected @tracked to be inline. (decorator-position)\n"+
		"      @tracked\n"+
		"      ^\n"+
		"\n1 problem (1 fixable)\n", path)
	if stdout.String() != want {
		t.Errorf("output:\ngot:\n%s\nwant:\n%s", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}

	// Report mode never modifies files.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != badSource {
		t.Errorf("file modified in report mode: %q", string(data))
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{bad},
		Check:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("check bad: got %d, want %d", code, ExitViolation)
	}
	if !strings.Contains(stderr.String(), bad) {
		t.Errorf("check should list the file on stderr, got: %s", stderr.String())
	}

	good := writeFile(t, dir, "good.js", fixedSource)

	stdout.Reset()
	stderr.Reset()
	code = Run(t.Context(), &Options{
		Files:  []string{good},
		Check:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitOK {
		t.Errorf("check good: got %d, want %d", code, ExitOK)
	}
}

func TestRunDiff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{path},
		Diff:   true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("exit code: got %d, want %d", code, ExitViolation)
	}

	// Should contain both old and new versions.
	if !bytes.Contains(stdout.Bytes(), []byte("-  @tracked\n-  foo;\n")) {
		t.Errorf("diff missing old lines:\n%s", stdout.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("+  @tracked foo;\n")) {
		t.Errorf("diff missing new line:\n%s", stdout.String())
	}
}

func TestRunFix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{path},
		Fix:    true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d\n%s", code, ExitOK, stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != fixedSource {
		t.Errorf("file content: got %q, want %q", string(data), fixedSource)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no output after a full fix, got: %s", stdout.String())
	}
}

func TestRunFixLeavesUnfixable(t *testing.T) {
	src := "class A {\n  @tracked // note\n  foo;\n}\n"
	path := writeFile(t, t.TempDir(), "app.js", src)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{path},
		Fix:    true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("exit code: got %d, want %d", code, ExitViolation)
	}
	if !strings.Contains(stdout.String(), "1 problem (0 fixable)") {
		t.Errorf("summary missing, got:\n%s", stdout.String())
	}
}

func TestRunStdin(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode int
		wantOut  string
	}{
		{"fix prints fixed source", Options{Fix: true}, ExitOK, fixedSource},
		{"check", Options{Check: true}, ExitViolation, ""},
		{"report", Options{}, ExitViolation, "<stdin>:2:3: Expected @tracked to be inline."},
		{"diff", Options{Diff: true}, ExitViolation, "+++ b/<stdin>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			opts := tt.opts
			opts.Stdin = strings.NewReader(badSource)
			opts.Stdout = &stdout
			opts.Stderr = &stderr

			code := Run(t.Context(), &opts)
			if code != tt.wantCode {
				t.Errorf("exit code: got %d, want %d\n%s", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout: got %q, want it to contain %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{"/nonexistent/path/app.js"},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
}

func TestRunUnsupportedDecorator(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "member.js", "class A {\n  @service.inject store;\n}\n")
	other := writeFile(t, dir, "other.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{bad, other},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "unsupported decorator expression") {
		t.Errorf("stderr: got %q", stderr.String())
	}
	// Other files are still processed.
	if !strings.Contains(stdout.String(), other) {
		t.Errorf("expected report for %s, got:\n%s", other, stdout.String())
	}
}

func TestRunAlreadyClean(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", fixedSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{path},
		Diff:   true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no diff output, got: %s", stdout.String())
	}
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.js", badSource)
	writeFile(t, dir, "src/b.ts", fixedSource)
	writeFile(t, dir, "src/readme.md", badSource)
	writeFile(t, dir, "node_modules/lib/index.js", badSource)

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  []string{dir},
		Check:  true,
		Jobs:   2,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("exit code: got %d, want %d", code, ExitViolation)
	}
	listed := strings.Fields(stderr.String())
	want := []string{filepath.Join(dir, "src", "a.js")}
	if strings.Join(listed, " ") != strings.Join(want, " ") {
		t.Errorf("listed files: got %v, want %v", listed, want)
	}
}

func TestRunMultipleFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := range 8 {
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%d.js", i), badSource))
	}

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:  files,
		Jobs:   4,
		Quiet:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitViolation {
		t.Errorf("exit code: got %d, want %d", code, ExitViolation)
	}

	last := -1
	for _, f := range files {
		i := strings.Index(stdout.String(), f+":")
		if i <= last {
			t.Fatalf("reports out of order at %s:\n%s", f, stdout.String())
		}
		last = i
	}
	if strings.Contains(stdout.String(), "problems") {
		t.Error("quiet mode should not print the summary")
	}
}

func TestRunCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", fixedSource)
	cachePath := filepath.Join(dir, "cache")

	run := func() string {
		var stdout, stderr bytes.Buffer
		code := Run(t.Context(), &Options{
			Files:     []string{path},
			Cache:     true,
			CachePath: cachePath,
			Verbose:   true,
			Stdout:    &stdout,
			Stderr:    &stderr,
		})
		if code != ExitOK {
			t.Fatalf("exit code: got %d, want %d\n%s", code, ExitOK, stderr.String())
		}
		return stderr.String()
	}

	if out := run(); strings.Contains(out, "(cached)") {
		t.Errorf("first run should not hit the cache: %s", out)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if out := run(); !strings.Contains(out, "(cached)") {
		t.Errorf("second run should hit the cache: %s", out)
	}

	// Changed content invalidates the entry.
	writeFile(t, dir, "app.js", badSource)
	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:     []string{path},
		Cache:     true,
		CachePath: cachePath,
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	if code != ExitViolation {
		t.Errorf("changed file: got %d, want %d", code, ExitViolation)
	}
}

func TestRunCacheDisabledForDevBuild(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", fixedSource)
	cachePath := filepath.Join(dir, "cache")

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		Files:     []string{path},
		Cache:     true,
		CachePath: cachePath,
		Verbose:   true,
		Version:   "dev",
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	if code != ExitOK {
		t.Fatalf("exit code: got %d, want %d\n%s", code, ExitOK, stderr.String())
	}
	if !strings.Contains(stderr.String(), "cache disabled for development builds") {
		t.Errorf("stderr: got %q", stderr.String())
	}
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Errorf("cache file written for dev build: %v", err)
	}
}

func TestRunCacheKeyIncludesCommit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", fixedSource)
	cachePath := filepath.Join(dir, "cache")

	run := func(commit string) string {
		var stdout, stderr bytes.Buffer
		code := Run(t.Context(), &Options{
			Files:     []string{path},
			Cache:     true,
			CachePath: cachePath,
			Verbose:   true,
			Version:   "1.0.0",
			Commit:    commit,
			Stdout:    &stdout,
			Stderr:    &stderr,
		})
		if code != ExitOK {
			t.Fatalf("exit code: got %d, want %d\n%s", code, ExitOK, stderr.String())
		}
		return stderr.String()
	}

	run("abc123")
	if out := run("abc123"); !strings.Contains(out, "(cached)") {
		t.Errorf("same build should hit the cache: %s", out)
	}
	if out := run("def456"); strings.Contains(out, "(cached)") {
		t.Errorf("new commit should not hit the cache: %s", out)
	}
}

func TestRunVerbose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", fixedSource)

	var stdout, stderr bytes.Buffer
	_ = Run(t.Context(), &Options{
		Files:   []string{path},
		Verbose: true,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})

	if !bytes.Contains(stderr.Bytes(), []byte("app.js")) {
		t.Errorf("verbose mode should print filename to stderr, got: %s", stderr.String())
	}
}

func TestRunBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "custom.yml", "decorator-position:\n  methods: sideways\n")

	var stdout, stderr bytes.Buffer
	code := Run(t.Context(), &Options{
		ConfigPath: cfg,
		Files:      []string{writeFile(t, dir, "app.js", fixedSource)},
		Stdout:     &stdout,
		Stderr:     &stderr,
	})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "decorator-position.methods") {
		t.Errorf("stderr: got %q", stderr.String())
	}
}

func TestCaretPrefix(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want string
	}{
		{"  @tracked", 2, "  "},
		{"\t@tracked", 1, "\t"},
		{"日本 @x", 3, "     "},
		{"ab", 10, "  "},
	}
	for _, tt := range tests {
		if got := caretPrefix(tt.line, tt.col); got != tt.want {
			t.Errorf("caretPrefix(%q, %d) = %q, want %q", tt.line, tt.col, got, tt.want)
		}
	}
}
