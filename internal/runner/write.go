package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrTargetExists is returned when a move would overwrite a file.
var ErrTargetExists = errors.New("move target already exists")

// ErrTargetConflict is returned when two files move to the same path.
var ErrTargetConflict = errors.New("files move to the same target")

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// write checks every move target first, then writes the changed files and
// removes the sources of moved ones.
func (r *Runner) write(ctx context.Context, results []FileResult) error {
	if err := checkTargets(results); err != nil {
		return err
	}

	for _, res := range results {
		if !res.Changed() {
			continue
		}

		if err := writeResult(res); err != nil {
			return err
		}

		r.logger.DebugContext(ctx, "wrote file", "path", res.Path, "target", res.Target())
	}

	return nil
}

func checkTargets(results []FileResult) error {
	targets := make(map[string]string)

	for _, res := range results {
		if !res.Changed() || res.NewPath == "" || res.NewPath == res.Path {
			continue
		}

		if other, ok := targets[res.NewPath]; ok {
			return fmt.Errorf("%w: %s and %s -> %s", ErrTargetConflict, other, res.Path, res.NewPath)
		}

		targets[res.NewPath] = res.Path

		if _, err := os.Stat(res.NewPath); err == nil {
			return fmt.Errorf("%w: %s", ErrTargetExists, res.NewPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", res.NewPath, err)
		}
	}

	return nil
}

func writeResult(res FileResult) error {
	perm := os.FileMode(filePerm)
	if info, err := os.Stat(res.Path); err == nil {
		perm = info.Mode().Perm()
	}

	target := res.Target()

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("create dir for %s: %w", target, err)
	}

	if err := os.WriteFile(target, res.New, perm); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	if target != res.Path {
		if err := os.Remove(res.Path); err != nil {
			return fmt.Errorf("remove %s: %w", res.Path, err)
		}
	}

	return nil
}
