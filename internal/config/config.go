// internal/config/config.go
package config

import (
	_ "embed"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// Source kinds.
const (
	KindHTML = "html"
	KindRSS  = "rss"
	KindAPI  = "api"
	KindMail = "mail"
)

// Selectors are CSS selectors evaluated inside one listing container.
type Selectors struct {
	Title       string `yaml:"title" json:"title"`
	Company     string `yaml:"company" json:"company"`
	Location    string `yaml:"location" json:"location"`
	Description string `yaml:"description" json:"description"`
	Salary      string `yaml:"salary" json:"salary"`
	Link        string `yaml:"link" json:"link"`
	Date        string `yaml:"date" json:"date"`
}

type MailSource struct {
	IMAPHost    string   `yaml:"imap_host" json:"imap_host"`
	IMAPPort    int      `yaml:"imap_port" json:"imap_port"`
	Username    string   `yaml:"username" json:"username"`
	Mailbox     string   `yaml:"mailbox" json:"mailbox"`
	SubjectAny  []string `yaml:"subject_any" json:"subject_any"`
	MaxMessages int      `yaml:"max_messages" json:"max_messages"`
}

type Source struct {
	Name         string     `yaml:"name" json:"name"`
	Kind         string     `yaml:"kind" json:"kind"`
	Enabled      bool       `yaml:"enabled" json:"enabled"`
	BaseURL      string     `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	URLs         []string   `yaml:"urls,omitempty" json:"urls,omitempty"`
	ItemSelector string     `yaml:"item_selector,omitempty" json:"item_selector,omitempty"`
	Selectors    Selectors  `yaml:"selectors,omitempty" json:"selectors"`
	Mail         MailSource `yaml:"mail,omitempty" json:"mail"`
}

// Tier is one keyword group; every keyword found adds Weight once.
type Tier struct {
	Weight   int      `yaml:"weight" json:"weight"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// City maps a canonical location name to the substrings that identify it.
// Order in Config.Locations is significant: the first match wins.
type City struct {
	Name     string   `yaml:"name" json:"name"`
	Variants []string `yaml:"variants" json:"variants"`
}

type Matching struct {
	BaseScore   int  `yaml:"base_score" json:"base_score"`
	MaxScore    int  `yaml:"max_score" json:"max_score"`
	HighValue   Tier `yaml:"high_value" json:"high_value"`
	MediumValue Tier `yaml:"medium_value" json:"medium_value"`
}

type Config struct {
	App struct {
		Addr    string `yaml:"addr" json:"addr"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Database struct {
		Driver string `yaml:"driver" json:"driver"` // sqlite | pgx
		DSN    string `yaml:"dsn" json:"dsn"`
	} `yaml:"database" json:"database"`

	Fetch struct {
		UserAgent         string  `yaml:"user_agent" json:"user_agent"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		Concurrency       int     `yaml:"concurrency" json:"concurrency"`
		RespectRobots     bool    `yaml:"respect_robots" json:"respect_robots"`
	} `yaml:"fetch" json:"fetch"`

	Sources []Source `yaml:"sources" json:"sources"`

	Matching Matching `yaml:"matching" json:"matching"`

	Locations []City `yaml:"locations" json:"locations"`

	Filters struct {
		Locations       []string `yaml:"locations" json:"locations"`
		LocationChoices []string `yaml:"location_choices" json:"location_choices"`
		MinScore        int      `yaml:"min_score" json:"min_score"`
	} `yaml:"filters" json:"filters"`

	Notify struct {
		Enabled  bool  `yaml:"enabled" json:"enabled"`
		MinScore int   `yaml:"min_score" json:"min_score"`
		ChatID   int64 `yaml:"chat_id" json:"chat_id"`
	} `yaml:"notify" json:"notify"`

	Polling struct {
		RefreshMinutes int `yaml:"refresh_minutes" json:"refresh_minutes"`
	} `yaml:"polling" json:"polling"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic("config: embedded default.yml is invalid: " + err.Error())
	}
	return cfg
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	err := yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Load reads path on top of the built-in defaults; keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Polling.RefreshMinutes) * time.Minute
}

// Source looks up a source by name.
func (c Config) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}
