package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coah80/docxify/internal/config"
)

func testConfig(t *testing.T) config.Config {
	root := t.TempDir()
	return config.Config{
		Host:           "127.0.0.1",
		Port:           "0",
		UploadDir:      filepath.Join(root, "uploads"),
		ConvertedDir:   filepath.Join(root, "converted"),
		ConverterBin:   "pdf2docx",
		Retention:      config.FileRetention,
		MaxUploadBytes: config.MaxContentLength,
		AllowedExts:    []string{"pdf"},
		RateLimitMax:   2,
	}
}

func TestNewCreatesDirectories(t *testing.T) {
	cfg := testConfig(t)
	srv, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.ConverterBin, srv.Converter.Bin())
	assert.DirExists(t, cfg.UploadDir)
	assert.DirExists(t, cfg.ConvertedDir)
}

func TestRouterWiring(t *testing.T) {
	srv, err := New(testConfig(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"PDF to Word Converter"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF to Word Converter")
}

func TestUploadsAreRateLimited(t *testing.T) {
	srv, err := New(testConfig(t))
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/convert", nil)
		req.RemoteAddr = "198.51.100.9:1234"
		rec := httptest.NewRecorder()
		srv.HTTP.Handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other endpoints are not limited.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "198.51.100.9:1234"
		rec := httptest.NewRecorder()
		srv.HTTP.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.Port = itoaPort(l.Addr())
	require.NoError(t, l.Close())

	srv, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func itoaPort(addr net.Addr) string {
	_, port, _ := net.SplitHostPort(addr.String())
	return port
}

func TestPadVersion(t *testing.T) {
	assert.Equal(t, "dev       ", padVersion("dev"))
	assert.Equal(t, "v10.20.300", padVersion("v10.20.300"))
}
