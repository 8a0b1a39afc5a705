package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalize(t *testing.T) {
	out, err := execute(t, "normalize", "Baden-Württemberg", "1010 Wien")
	require.NoError(t, err)
	assert.Contains(t, out, "Baden-Württemberg\tStuttgart\n")
	assert.Contains(t, out, "1010 Wien\tWien\n")
}

func TestScore(t *testing.T) {
	out, err := execute(t, "score", "--title", "Head of HR", "--description", "Führung und Transformation")
	require.NoError(t, err)
	assert.Contains(t, out, "score:  80")
	assert.Contains(t, out, "führung")

	_, err = execute(t, "score")
	assert.Error(t, err)
}

func TestScore_KeywordsFile(t *testing.T) {
	kw := filepath.Join(t.TempDir(), "keywords.yml")
	require.NoError(t, os.WriteFile(kw, []byte("high_value: [head, führung, transformation]\nmedium_value: [x]\n"), 0o644))

	out, err := execute(t, "--keywords", kw, "score", "-t", "Head of HR", "-d", "Führung und Transformation")
	require.NoError(t, err)
	assert.Contains(t, out, "score:  75")
}

const board = `<html><body>
<div class="m-jobsListItem"><h2><a href="/jobs/1">Head of HR</a></h2>
<div class="m-jobsListItem__company">ACME</div>
<div class="m-jobsListItem__location">Baden-Württemberg</div>
<div class="m-jobsListItem__description">Führung und Transformation</div></div>
<div class="m-jobsListItem"><h2><a href="/jobs/2">Lagerarbeiter</a></h2>
<div class="m-jobsListItem__location">Graz</div></div>
</body></html>`

func boardServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(board))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("fetch:\n  respect_robots: false\n  requests_per_second: 0\n"), 0o644))
	return path
}

func TestSearch_SingleURL(t *testing.T) {
	srv := boardServer(t)
	cfg := testConfig(t)

	out, err := execute(t, "-c", cfg, "search", "--url", srv.URL+"/jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "Gefunden: 1 passende Positionen")
	assert.Contains(t, out, "Head of HR")
	assert.Contains(t, out, "Stuttgart")
	assert.NotContains(t, out, "Lagerarbeiter")

	out, err = execute(t, "-c", cfg, "search", "--url", srv.URL+"/jobs", "--all", "--asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Gefunden: 2 passende Positionen")
	assert.Less(t, bytes.Index([]byte(out), []byte("Lagerarbeiter")), bytes.Index([]byte(out), []byte("Head of HR")))
}

func TestSearch_NoResults(t *testing.T) {
	srv := boardServer(t)
	out, err := execute(t, "-c", testConfig(t), "search", "--url", srv.URL+"/jobs", "--location", "Salzburg")
	require.NoError(t, err)
	assert.Contains(t, out, "Keine passenden Positionen gefunden.")
}

func TestSearch_BadMinScore(t *testing.T) {
	_, err := execute(t, "search", "--min-score", "120")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Führung", truncate("Führung", 7))
	assert.Equal(t, "Führ...", truncate("Führungskraft", 7))
}
