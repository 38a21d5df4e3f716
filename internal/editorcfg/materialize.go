package editorcfg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"nvim-bootstrap/internal/logger"
)

// Write places one artifact under root, creating parent directories as
// needed. Existing content is overwritten unconditionally; re-running always
// produces output byte-for-byte equal to the artifact content.
func Write(root string, a Artifact) error {
	target := filepath.Join(root, a.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", a.Path, err)
	}

	mode := os.FileMode(0644)
	if a.Executable {
		mode = 0755
	}
	if err := os.WriteFile(target, []byte(a.Content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Path, err)
	}
	// WriteFile's mode only applies on creation; enforce it on overwrite too.
	if err := os.Chmod(target, mode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", a.Path, err)
	}

	logger.Debug("[DEBUG] Wrote %s\n", target)
	return nil
}

// Materialize writes all artifacts under root. The first failure is
// returned; writes are independent, so nothing is rolled back.
func Materialize(root string, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := Write(root, a); err != nil {
			return err
		}
	}
	logger.Ok("[OK] Wrote %d config artifacts under %s\n", len(artifacts), root)
	return nil
}

// CloneStarter fetches the starter configuration tree into dest with a
// shallow git clone. dest must not exist; the backup sweep is responsible
// for having cleared it.
func CloneStarter(repo, dest string) error {
	cmd := exec.Command("git", "clone", "--depth=1", repo, dest)
	logger.Info("[INFO] Cloning starter config: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone of %s failed: %w\nOutput: %s", repo, err, output)
	}
	return nil
}
