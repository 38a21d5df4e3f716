package installer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"nvim-bootstrap/internal/logger"
)

// InstallFont downloads a font release archive, extracts it under tmpDir and
// copies every .ttf/.otf file flat into fontDir. On hosts with fc-cache the
// font cache is refreshed afterwards, best-effort. It returns the installed
// font file paths.
func InstallFont(name, url, tmpDir, fontDir string) ([]string, error) {
	archive := filepath.Join(tmpDir, name+filepath.Ext(url))

	logger.Info("[INFO] Downloading font %s\n", name)
	if err := downloadFile(url, archive); err != nil {
		return nil, err
	}

	extractRoot := filepath.Join(tmpDir, name+"-extracted")
	if err := os.MkdirAll(extractRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", extractRoot, err)
	}
	if _, err := ExtractArchive(archive, extractRoot); err != nil {
		return nil, fmt.Errorf("failed to extract font archive: %w", err)
	}

	if err := os.MkdirAll(fontDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create font directory %s: %w", fontDir, err)
	}

	var installed []string
	err := filepath.WalkDir(extractRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".ttf" && ext != ".otf" {
			return nil
		}
		dest := filepath.Join(fontDir, filepath.Base(path))
		if err := copyRegular(path, dest); err != nil {
			return err
		}
		installed = append(installed, dest)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to install font files: %w", err)
	}
	if len(installed) == 0 {
		return nil, fmt.Errorf("font archive %s contained no .ttf or .otf files", url)
	}

	refreshFontCache()
	logger.Ok("[OK] Installed %d font files to %s\n", len(installed), fontDir)
	return installed, nil
}

// refreshFontCache runs fc-cache when available. Failures only warn; the
// font files are already in place and most desktops pick them up lazily.
func refreshFontCache() {
	if _, err := exec.LookPath("fc-cache"); err != nil {
		return
	}
	if output, err := exec.Command("fc-cache", "-f").CombinedOutput(); err != nil {
		logger.Warn("[WARN] fc-cache failed: %v\nOutput: %s\n", err, output)
	}
}

// copyRegular copies one file with mode 0644.
func copyRegular(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
