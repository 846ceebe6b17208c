// Package testutil provides shared testing utilities for surfboard tests.
package testutil

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile creates a file with the given content, creating parent directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// AssertFileExists fails the test if the file does not exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileNotExists fails the test if the file exists.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

// AssertFileContent fails the test if the file content doesn't match.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if string(data) != expected {
		t.Errorf("file %s:\n  got:  %q\n  want: %q", path, string(data), expected)
	}
}

// AssertFileContains fails the test if the file doesn't contain the substring.
func AssertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", path, substr)
	}
}

// ArchiveEntry describes one entry of a fixture tarball.
type ArchiveEntry struct {
	Name string // slash-separated path inside the archive
	Mode int64  // permission bits; zero picks a per-type default
	Body string // file content (regular files)
	Dir  bool
	Link string // symlink target; makes the entry a symlink
}

// BuildTarGz writes a gzip-compressed tarball for extraction fixtures.
func BuildTarGz(t *testing.T, path string, entries []ArchiveEntry) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive %s: %v", path, err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: e.Mode}
		switch {
		case e.Dir:
			hdr.Typeflag = tar.TypeDir
			if hdr.Mode == 0 {
				hdr.Mode = 0o755
			}
			if !strings.HasSuffix(hdr.Name, "/") {
				hdr.Name += "/"
			}
		case e.Link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
			if hdr.Mode == 0 {
				hdr.Mode = 0o777
			}
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
			if hdr.Mode == 0 {
				hdr.Mode = 0o644
			}
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("write tar body %s: %v", e.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

// BuildReleaseArchive writes a Windsurf-shaped release tarball: a single
// top-level wrapper directory holding the launcher binary, the icon at its
// known relative path, and a version-stamped payload file.
func BuildReleaseArchive(t *testing.T, path, version string) {
	t.Helper()

	BuildTarGz(t, path, []ArchiveEntry{
		{Name: "Windsurf", Dir: true},
		{Name: "Windsurf/windsurf", Mode: 0o755, Body: "#!/bin/sh\necho windsurf " + version + "\n"},
		{Name: "Windsurf/resources/app/resources/linux/code.png", Body: "png-bytes"},
		{Name: "Windsurf/resources/app/product.json", Body: `{"version":"` + version + `"}`},
	})
}

// FileSHA256 returns the hex-encoded SHA-256 digest of a file.
func FileSHA256(t *testing.T, path string) string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		t.Fatalf("hash %s: %v", path, err)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// ReleaseServer serves release metadata and the archive the way the upstream
// update endpoint does. The metadata endpoint is srv.URL + "/api/latest".
func ReleaseServer(t *testing.T, archivePath, version string) *httptest.Server {
	t.Helper()

	digest := FileSHA256(t, archivePath)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url":             "http://" + r.Host + "/archive/windsurf.tar.gz",
			"windsurfVersion": version,
			"sha256hash":      digest,
		})
	})
	mux.HandleFunc("/archive/windsurf.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, archivePath)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}
