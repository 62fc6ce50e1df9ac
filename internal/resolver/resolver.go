package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrNoMatch reports a pattern that selects no file.
var ErrNoMatch = errors.New("pattern matches no file")

// Resolve expands the registry file patterns of an interface document.
// Relative patterns are taken relative to base. A pattern naming a
// directory selects every .json file in it. Results keep pattern order,
// each file listed once.
func Resolve(base string, patterns []string, logger *slog.Logger) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := expand(base, pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.WithHint(
				errors.Wrapf(ErrNoMatch, "%s (relative to %s)", pattern, base),
				"file patterns are resolved against the directory of the interface document")
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
		logger.Debug("resolved pattern", "pattern", pattern, "files", len(matches))
	}
	logger.Info("resolved input files", "base", base, "files", len(files))
	return files, nil
}

func expand(base, pattern string) ([]string, error) {
	path := pattern
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return jsonFiles(path)
	}

	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %s", pattern)
	}
	out := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", m)
		}
		if !info.IsDir() {
			out = append(out, m)
		}
	}
	return out, nil
}

// jsonFiles lists the .json files directly inside dir, sorted by name.
func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
