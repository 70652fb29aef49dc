package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
	"github.com/src-d/enry/v2"
)

// ErrInvalidPattern is returned for include or exclude globs that do not compile.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// languagePHP is the enry name of the PHP language.
const languagePHP = "PHP"

// compileGlobs compiles a slice of glob pattern strings into matchers.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}

		matchers = append(matchers, matcher)
	}

	return matchers, nil
}

func matchAny(matchers []glob.Glob, name string) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}

	return false
}

// isPHP reports whether PHP is among the languages enry associates with
// the extension of path. ".php" is shared with Hack, so the first guess
// alone is not enough.
func isPHP(path string) bool {
	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), languagePHP)
}

// selected applies the include and exclude globs to a slash-separated path
// relative to its root.
func (r *Runner) selected(rel string) bool {
	if matchAny(r.exclude, rel) {
		return false
	}

	return len(r.include) == 0 || matchAny(r.include, rel)
}

// Discover lists the PHP files under roots in walk order. Roots are made
// absolute first so gate markers match from the filesystem root. A root may
// be a single file, which is taken as is. Vendored and hidden directories
// are skipped.
func (r *Runner) Discover(ctx context.Context, roots []string) ([]string, error) {
	var files []string

	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}

		root = abs

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			add(root)

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return fmt.Errorf("rel %s: %w", path, relErr)
			}

			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && (enry.IsVendor(rel+"/") || enry.IsDotFile(rel)) {
					return filepath.SkipDir
				}

				return nil
			}

			if d.Type().IsRegular() && isPHP(path) && r.selected(rel) {
				add(path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	return files, nil
}
