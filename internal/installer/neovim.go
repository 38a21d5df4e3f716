// Package installer fetches and places the editor release and fonts. It
// knows how to download a URL to a file, unpack the archive formats release
// assets come in, and copy the results into place; it has no opinion about
// ordering or prompting, which belong to the pipeline.
package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"nvim-bootstrap/internal/backup"
	"nvim-bootstrap/internal/logger"
	"nvim-bootstrap/internal/platform"
)

// InstallNeovim downloads the release archive for p, extracts it under
// tmpDir, moves the release tree to optDir and links the nvim binary into
// binDir. It returns the path of the installed binary link.
//
// The whole release tree is kept rather than just the binary because nvim
// resolves its runtime files relative to the executable location.
func InstallNeovim(p platform.Platform, tmpDir, optDir, binDir string) (string, error) {
	url := p.DownloadURL()
	archive := filepath.Join(tmpDir, p.AssetName())

	logger.Info("[INFO] Downloading %s\n", url)
	if err := downloadFile(url, archive); err != nil {
		return "", err
	}

	extracted, err := ExtractArchive(archive, tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", archive, err)
	}

	// The release must contain bin/nvim; anything else means a broken or
	// unexpected archive.
	nvim := filepath.Join(extracted, "bin", "nvim")
	if _, err := os.Stat(nvim); err != nil {
		return "", fmt.Errorf("release archive has no bin/nvim under %s: %w", extracted, err)
	}

	// Replace any previous install of the release tree wholesale.
	if err := os.RemoveAll(optDir); err != nil {
		return "", fmt.Errorf("failed to clear %s: %w", optDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(optDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(optDir), err)
	}
	if err := backup.CopyTree(extracted, optDir); err != nil {
		return "", fmt.Errorf("failed to install release tree to %s: %w", optDir, err)
	}

	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create bin directory %s: %w", binDir, err)
	}
	link := filepath.Join(binDir, "nvim")
	_ = os.Remove(link)
	if err := os.Symlink(filepath.Join(optDir, "bin", "nvim"), link); err != nil {
		return "", fmt.Errorf("failed to link %s: %w", link, err)
	}

	logger.Ok("[OK] Installed nvim to %s\n", link)
	return link, nil
}
