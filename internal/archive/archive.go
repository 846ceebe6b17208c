// Package archive unpacks release tarballs.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when an archive entry would land outside the
// destination directory.
var ErrUnsafePath = errors.New("archive: entry escapes destination")

// ExtractTarGz extracts a .tar.gz archive into destDir, stripping strip
// leading path components from every entry. Windsurf release tarballs wrap
// everything in one top-level directory; strip=1 flattens it away.
func ExtractTarGz(archivePath, destDir string, strip int) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = archiveFile.Close() }()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer func() { _ = gzipReader.Close() }()

	tarReader := tar.NewReader(gzipReader)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		name := stripComponents(header.Name, strip)
		if name == "" {
			continue // The wrapper directory itself, or an entry above the strip depth
		}

		target := filepath.Join(destDir, name)

		// Security check: prevent path traversal
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			// Not every archive carries directory entries for parents
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create parent dir for %s: %w", target, err)
			}

			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}

			if _, err := io.Copy(outFile, tarReader); err != nil {
				_ = outFile.Close()

				return fmt.Errorf("write file %s: %w", target, err)
			}

			_ = outFile.Close()

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			// Skip other types (char devices, block devices, etc.)
			continue
		}
	}

	return nil
}

// stripComponents drops the leading n path components from a tar entry name.
// Returns "" when nothing remains. Tar names are slash-separated.
func stripComponents(name string, n int) string {
	name = strings.TrimPrefix(path.Clean(name), "./")
	if name == "." || name == "/" || name == "" {
		return ""
	}

	parts := strings.Split(name, "/")
	if len(parts) <= n {
		return ""
	}

	return path.Join(parts[n:]...)
}
