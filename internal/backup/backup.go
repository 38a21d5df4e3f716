// Package backup moves pre-existing user directories out of the way before
// the bootstrap overwrites them. Backups rotate: an existing <dir>.bak is
// never clobbered, the next run gets <dir>.bak.1, then <dir>.bak.2, and so
// on. The original directory is only ever deleted after its backup copy has
// fully materialized.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nvim-bootstrap/internal/logger"
)

// NextSlot returns the first unused backup name for path: <path>.bak if free,
// otherwise <path>.bak.1, <path>.bak.2, ... The probe is a linear scan; this
// runs at most a handful of times per invocation, never in a hot path.
func NextSlot(path string) string {
	slot := path + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Lstat(slot); os.IsNotExist(err) {
			return slot
		}
		slot = fmt.Sprintf("%s.bak.%d", path, n)
	}
}

// RetireOrDelete removes dir, optionally preserving its contents in a fresh
// backup slot first. A missing dir is a silent no-op. When keep is true, the
// directory is recursively copied (modes preserved) into the next free slot
// and deleted only if the copy fully succeeded; a failed copy leaves the
// original untouched and cleans up the partial slot. When keep is false, the
// directory is deleted outright.
//
// It returns the slot path that was created, or "" when nothing was backed up.
func RetireOrDelete(dir string, keep bool) (string, error) {
	if _, err := os.Lstat(dir); os.IsNotExist(err) {
		return "", nil
	}

	if !keep {
		logger.Info("[INFO] Removing %s (no backup requested)\n", dir)
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		return "", nil
	}

	slot := NextSlot(dir)
	logger.Info("[INFO] Backing up %s to %s\n", dir, slot)
	if err := copyTreeFn(dir, slot); err != nil {
		// The backup did not materialize, so the original must survive.
		_ = os.RemoveAll(slot)
		return "", fmt.Errorf("backup of %s failed: %w", dir, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return slot, fmt.Errorf("failed to remove %s after backup: %w", dir, err)
	}
	logger.Ok("[OK] Backed up %s\n", dir)
	return slot, nil
}

// copyTreeFn is swapped out in tests to exercise the failed-backup path.
var copyTreeFn = CopyTree

// CopyTree recursively copies src into dst, preserving file modes and
// recreating symlinks. dst must not exist yet.
func CopyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

// copyFile copies a single regular file, creating parent directories and
// applying the given mode.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return out.Close()
}
