package htmlload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPaths resolves command-line arguments to HTML files. An argument may
// be a file, a directory (searched for **/*.html) or a doublestar glob.
// Results are de-duplicated and sorted.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		pattern := arg
		if !strings.ContainsAny(arg, "*?[{") {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", arg, err)
			}
			if !info.IsDir() {
				add(filepath.Clean(arg))
				continue
			}
			pattern = filepath.Join(arg, "**", "*.html")
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out, nil
}
