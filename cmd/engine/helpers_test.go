package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownHandler_Guards(t *testing.T) {
	srv := &http.Server{}
	h := shutdownHandler("secret", srv)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "198.51.100.3:5000"
	req.Header.Set("X-Shutdown-Token", "secret")
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	req.Header.Set("X-Shutdown-Token", "wrong")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "[::1]:5000"
	req.Header.Set("X-Shutdown-Token", "secret")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownToken(t *testing.T) {
	t.Setenv("JOBSEARCH_SHUTDOWN_TOKEN", "")
	dir := t.TempDir()

	tok, err := shutdownToken(dir)
	require.NoError(t, err)
	assert.Len(t, tok, 32)

	b, err := os.ReadFile(filepath.Join(dir, "shutdown.token"))
	require.NoError(t, err)
	assert.Equal(t, tok, strings.TrimSpace(string(b)))

	t.Setenv("JOBSEARCH_SHUTDOWN_TOKEN", "fixed")
	tok, err = shutdownToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok)
}

func TestLoadConfig_AppliesOverlays(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBSEARCH_ADDR", "127.0.0.1:0")

	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("filters:\n  min_score: 50\n"), 0o644))
	kw := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(kw, []byte("high_value: [\" People \"]\n"), 0o644))

	cfg, err := loadConfig(path, kw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", cfg.App.Addr)
	assert.Equal(t, 50, cfg.Filters.MinScore)
	assert.Equal(t, []string{"people"}, cfg.Matching.HighValue.Keywords)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b"))
	assert.Nil(t, splitList(""))
}
