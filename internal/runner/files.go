package runner

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rwwagner90/eslint-plugin-decorator-position/internal/config"
)

// expandFiles resolves path arguments into files. Directories are walked for
// files with a configured extension, skipping excluded names. Explicit file
// arguments are kept as given, and missing paths are kept so processing
// reports them.
func expandFiles(opts *Options, fc config.FilesConfig) ([]string, int) {
	code := ExitOK
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range opts.Files {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != arg && excluded(d.Name(), fc.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && hasExtension(path, fc.Extensions) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			writeErr(opts.Stderr, "%s: walking %s: %v\n", progName, arg, err)
			code = ExitError
		}

		// Sort for deterministic order.
		slices.Sort(found)
		for _, path := range found {
			add(path)
		}
	}

	return files, code
}

// excluded reports whether name matches one of the exclude patterns.
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
