// config/overlay.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordsFile is the optional keywords.yml next to config.yml.
type KeywordsFile struct {
	HighValue   []string `yaml:"high_value"`
	MediumValue []string `yaml:"medium_value"`
}

// OverlayKeywords replaces the keyword tables with the ones from keywordsPath.
// A missing file is not an error.
func OverlayKeywords(cfg *Config, keywordsPath string) error {
	if keywordsPath == "" {
		return nil
	}
	b, err := os.ReadFile(keywordsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read keywords: %w", err)
	}

	var kf KeywordsFile
	if err := yaml.Unmarshal(b, &kf); err != nil {
		return fmt.Errorf("parse keywords %s: %w", keywordsPath, err)
	}

	if len(kf.HighValue) > 0 {
		cfg.Matching.HighValue.Keywords = kf.HighValue
	}
	if len(kf.MediumValue) > 0 {
		cfg.Matching.MediumValue.Keywords = kf.MediumValue
	}
	return nil
}

// OverlayEnv applies JOBSEARCH_* and TELEGRAM_* environment overrides.
func OverlayEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := strings.TrimSpace(getenv("JOBSEARCH_ADDR")); v != "" {
		cfg.App.Addr = v
	}
	if v := strings.TrimSpace(getenv("JOBSEARCH_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(getenv("JOBSEARCH_DB_DRIVER")); v != "" {
		cfg.Database.Driver = v
	}
	if v := strings.TrimSpace(getenv("JOBSEARCH_DB_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(getenv("JOBSEARCH_USER_AGENT")); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := strings.TrimSpace(getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		cfg.Notify.ChatID = id
	}
	return nil
}
