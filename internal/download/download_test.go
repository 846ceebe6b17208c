package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func serveBytes(t *testing.T, content []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func digestOf(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

func TestFetch(t *testing.T) {
	content := []byte("windsurf release archive bytes")
	srv := serveBytes(t, content)
	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	digest, err := NewFetcher().Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if digest != digestOf(content) {
		t.Errorf("digest = %q, want %q", digest, digestOf(content))
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Error("downloaded content differs from served content")
	}
}

func TestFetch_CreatesScratchDir(t *testing.T) {
	srv := serveBytes(t, []byte("payload"))
	dest := filepath.Join(t.TempDir(), "scratch", "nested", "windsurf.tar.gz")

	if _, err := NewFetcher().Fetch(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	_, err := NewFetcher().Fetch(context.Background(), srv.URL, dest)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Errorf("error = %v, want ErrDownloadFailed", err)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed download should not leave a file behind")
	}
}

func TestFetch_RemovesPartialOnTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more bytes than delivered: the client sees an unexpected EOF
		w.Header().Set("Content-Length", "1024")
		_, _ = w.Write([]byte("short"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	_, err := NewFetcher().Fetch(context.Background(), srv.URL, dest)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Errorf("error = %v, want ErrDownloadFailed", err)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("partial download should have been removed")
	}
}

func TestFetchVerified(t *testing.T) {
	content := []byte("verified archive")
	srv := serveBytes(t, content)
	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	err := NewFetcher().FetchVerified(context.Background(), srv.URL, dest, digestOf(content))
	if err != nil {
		t.Fatalf("FetchVerified: %v", err)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Errorf("verified download missing: %v", err)
	}
}

func TestFetchVerified_Mismatch(t *testing.T) {
	content := []byte("archive bytes")
	srv := serveBytes(t, content)
	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	wrong := digestOf([]byte("something else"))
	err := NewFetcher().FetchVerified(context.Background(), srv.URL, dest, wrong)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("error = %v, want ErrChecksumMismatch", err)
	}

	// The message must show both values for diagnosis
	if !strings.Contains(err.Error(), wrong) || !strings.Contains(err.Error(), digestOf(content)) {
		t.Errorf("error %q should carry expected and actual digests", err)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("mismatched download should have been removed")
	}
}

func TestFetchVerified_SingleByteCorruption(t *testing.T) {
	content := []byte("release archive with exact bytes")
	corrupted := append([]byte(nil), content...)
	corrupted[len(corrupted)/2] ^= 0x01

	srv := serveBytes(t, corrupted)
	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	err := NewFetcher().FetchVerified(context.Background(), srv.URL, dest, digestOf(content))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("single-byte corruption must be rejected, got %v", err)
	}
}

func TestFetchVerified_CaseSensitive(t *testing.T) {
	content := []byte("case matters")
	srv := serveBytes(t, content)
	dest := filepath.Join(t.TempDir(), "windsurf.tar.gz")

	// Uppercase hex of the correct digest must not pass
	upper := strings.ToUpper(digestOf(content))
	err := NewFetcher().FetchVerified(context.Background(), srv.URL, dest, upper)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("uppercase digest should be rejected, got %v", err)
	}
}
