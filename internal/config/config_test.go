package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	_, vr := NormalizeAndValidate(cfg)
	assert.Empty(t, vr.Errors)

	assert.Equal(t, 60, cfg.Matching.BaseScore)
	assert.Equal(t, 99, cfg.Matching.MaxScore)
	assert.Equal(t, 5, cfg.Matching.HighValue.Weight)
	assert.Equal(t, 3, cfg.Matching.MediumValue.Weight)
	assert.Contains(t, cfg.Matching.HighValue.Keywords, "führung")
	assert.Contains(t, cfg.Matching.MediumValue.Keywords, "management")
	assert.Equal(t, "wien", cfg.Locations[0].Name)
	assert.Equal(t, []string{"Wien", "Stuttgart"}, cfg.Filters.Locations)
	assert.Equal(t, 80, cfg.Filters.MinScore)

	src, ok := cfg.Source("karriere")
	require.True(t, ok)
	assert.Equal(t, KindHTML, src.Kind)
	assert.Equal(t, "h2", src.Selectors.Title)
}

func TestNormalizeAndValidate_TrimsAndLowercasesKeywords(t *testing.T) {
	cfg := Default()
	cfg.Matching.HighValue.Keywords = []string{" Führung ", "führung", "", "HEAD"}

	out, vr := NormalizeAndValidate(cfg)
	require.True(t, vr.OK(), vr.Errors)
	assert.Equal(t, []string{"führung", "head"}, out.Matching.HighValue.Keywords)
}

func TestNormalizeAndValidate_RejectsBadScores(t *testing.T) {
	cfg := Default()
	cfg.Matching.BaseScore = 90
	cfg.Matching.MaxScore = 80
	cfg.Matching.MediumValue.Weight = -1

	_, vr := NormalizeAndValidate(cfg)
	assert.False(t, vr.OK())
	assert.Len(t, vr.Errors, 2)
}

func TestNormalizeAndValidate_LocationTableMustBeFixedPoints(t *testing.T) {
	cfg := Default()
	cfg.Locations = []City{
		{Name: "wien", Variants: []string{"wien", "österreich"}},
		// "niederösterreich" would normalize to wien.
		{Name: "niederösterreich", Variants: []string{"niederösterreich", "st. pölten"}},
		{Name: "graz", Variants: []string{"steiermark"}},
	}

	_, vr := NormalizeAndValidate(cfg)
	require.Len(t, vr.Errors, 2)
	assert.Contains(t, vr.Errors[0], "captured by earlier city")
	assert.Contains(t, vr.Errors[1], "not matched by its own variants")
}

func TestNormalizeAndValidate_Sources(t *testing.T) {
	cfg := Default()
	cfg.Sources = []Source{
		{Name: "a", Kind: "html", Enabled: true, URLs: []string{"https://example.com/jobs"}},
		{Name: "a", Kind: "ftp"},
		{Name: "m", Kind: "mail", Enabled: true, ItemSelector: "li", Selectors: Selectors{Title: "h2"}},
	}

	_, vr := NormalizeAndValidate(cfg)
	assert.Contains(t, vr.Errors, `sources[0] (a): item_selector is required`)
	assert.Contains(t, vr.Errors, `sources[1].name "a" is duplicated`)
	assert.Contains(t, vr.Errors, `sources[1].kind "ftp" must be one of html, rss, api, mail`)
	assert.Contains(t, vr.Errors, `sources[2] (m): mail.imap_host is required`)
}

func TestSaveAtomicAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.Filters.MinScore = 70

	require.NoError(t, SaveAtomic(path, cfg))
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Filters.MinScore)
	assert.FileExists(t, path+".bak")

	cfg.Matching.MaxScore = 10
	assert.Error(t, SaveAtomic(path, cfg))
}

func TestEnsureUserConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	require.NoError(t, os.WriteFile(path, []byte("filters:\n  min_score: 42\n"), 0o644))
	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)

	got, err := Load(again)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Filters.MinScore, "existing config must not be overwritten")
}

func TestOverlays(t *testing.T) {
	cfg := Default()

	env := map[string]string{
		"JOBSEARCH_ADDR":   "0.0.0.0:9000",
		"TELEGRAM_CHAT_ID": "12345",
	}
	require.NoError(t, OverlayEnv(&cfg, func(k string) string { return env[k] }))
	assert.Equal(t, "0.0.0.0:9000", cfg.App.Addr)
	assert.Equal(t, int64(12345), cfg.Notify.ChatID)

	env["TELEGRAM_CHAT_ID"] = "abc"
	assert.Error(t, OverlayEnv(&cfg, func(k string) string { return env[k] }))

	kw := filepath.Join(t.TempDir(), "keywords.yml")
	require.NoError(t, os.WriteFile(kw, []byte("high_value: [people]\n"), 0o644))
	require.NoError(t, OverlayKeywords(&cfg, kw))
	assert.Equal(t, []string{"people"}, cfg.Matching.HighValue.Keywords)
	assert.NotEmpty(t, cfg.Matching.MediumValue.Keywords)

	assert.NoError(t, OverlayKeywords(&cfg, filepath.Join(t.TempDir(), "missing.yml")))
}

func TestOverlayKeywords_ReadErrorsSurface(t *testing.T) {
	cfg := Default()
	before := cfg.Matching.HighValue.Keywords

	dir := t.TempDir()
	err := OverlayKeywords(&cfg, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read keywords")

	bad := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(bad, []byte("high_value: [unclosed\n"), 0o644))
	assert.Error(t, OverlayKeywords(&cfg, bad))

	assert.NoError(t, OverlayKeywords(&cfg, ""))
	assert.Equal(t, before, cfg.Matching.HighValue.Keywords)
}
