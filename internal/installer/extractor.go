package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // .7z archives
	"github.com/xi2/xz"          // .xz streams

	"nvim-bootstrap/internal/logger"
)

// ExtractArchive unpacks src into dest and returns the path of the archive's
// top-level entry. Supported formats: .zip, .7z, .tar and the compressed tar
// variants (.tar.gz/.tgz, .tar.bz2, .tar.xz).
func ExtractArchive(src, dest string) (string, error) {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] Extracting zip archive %s\n", src)
		return extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] Extracting 7z archive %s\n", src)
		return extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] Extracting tar archive %s\n", src)
		return extractTar(src, dest)
	default:
		return "", fmt.Errorf("unsupported archive format: %s", src)
	}
}

// decompress wraps the raw archive stream in the decompressor matching the
// filename, or returns it unchanged for plain .tar.
func decompress(src string, f *os.File) (io.Reader, func(), error) {
	noop := func() {}
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, noop, err
		}
		return gr, func() { gr.Close() }, nil
	case strings.HasSuffix(src, ".tar.bz2"):
		return bzip2.NewReader(f), noop, nil
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, noop, err
		}
		return xzr, noop, nil
	}
	return f, noop, nil
}

func extractTar(src, dest string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, done, err := decompress(src, f)
	if err != nil {
		return "", err
	}
	defer done()

	tr := tar.NewReader(reader)
	var topLevel string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if topLevel == "" {
			topLevel = firstComponent(hdr.Name)
		}

		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return "", err
			}
			_ = os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return "", err
			}
		}
	}
	return filepath.Join(dest, topLevel), nil
}

func extractZip(src, dest string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		if topLevel == "" {
			topLevel = firstComponent(f.Name)
		}
		target := filepath.Join(dest, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

func extract7z(src, dest string) (string, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		if topLevel == "" {
			topLevel = firstComponent(f.Name)
		}
		target := filepath.Join(dest, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode().Perm()); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// writeEntry writes one archive member to disk, creating parent directories.
// A zero mode (archives with no recorded permissions) falls back to 0644.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// firstComponent returns the leading path element of an archive member name.
func firstComponent(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexRune(name, '/'); i > 0 {
		return name[:i]
	}
	return name
}
