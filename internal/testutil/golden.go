// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// FixFunc is the signature for a function that lints and fixes source with
// the given configuration.
type FixFunc func(input string, cfg *config.Config) (string, error)

// RunGolden runs a single golden file test in the given directory.
// It reads input.<ext>, applies fixFn, and compares against expected.<ext>.
// A config.yml in the directory replaces the default configuration.
func RunGolden(t *testing.T, dir string, fixFn FixFunc) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "input.*"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("want exactly one input file in %s, got %v (%v)", dir, matches, err)
	}
	inputPath := matches[0]
	expectedPath := filepath.Join(dir, "expected"+filepath.Ext(inputPath))

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}

	cfg := config.DefaultConfig()
	if cfgPath := filepath.Join(dir, "config.yml"); fileExists(cfgPath) {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			t.Fatalf("failed to load %s: %v", cfgPath, err)
		}
	}

	actual, err := fixFn(string(inputBytes), cfg)
	if err != nil {
		t.Fatalf("fixing %s: %v", inputPath, err)
	}

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	expected := string(expectedBytes)
	if actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, fixFn FixFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(testdataDir, entry.Name())
			RunGolden(t, dir, fixFn)
		})
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
