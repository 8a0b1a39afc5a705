package httpapi

import (
	"context"
	"sync/atomic"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/events"
	"github.com/JFdC77/job-search-assistant/internal/search"
	"github.com/JFdC77/job-search-assistant/internal/store"
)

// RunStore is the part of the store the API reads directly.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	Checkpoint(ctx context.Context) error
}

type Deps struct {
	Store  RunStore // optional
	Hub    *events.Hub
	Search *search.Service

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// SetSecret and DeleteSecret manage keychain credentials (inject for testability).
	SetSecret    func(account, value string) error
	DeleteSecret func(account string) error

	// AllowedOrigins for CORS; empty allows same-origin only.
	AllowedOrigins []string
}

func currentConfig(v *atomic.Value) config.Config {
	return v.Load().(config.Config)
}
