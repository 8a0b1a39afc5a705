package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JFdC77/job-search-assistant/internal/rank"
	"github.com/JFdC77/job-search-assistant/internal/scrape"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/search"
	"github.com/JFdC77/job-search-assistant/internal/secrets"
)

type searchOpts struct {
	url       string
	locations []string
	keywords  []string
	minScore  int
	asc       bool
	all       bool
}

func newSearchCmd(root *rootOpts) *cobra.Command {
	o := &searchOpts{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Fetch, score and rank listings once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, root, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.url, "url", "u", "", "search this result page instead of the configured sources")
	f.StringSliceVarP(&o.locations, "location", "l", nil, "location filter (repeatable or comma separated)")
	f.StringSliceVarP(&o.keywords, "keyword", "k", nil, "only listings that matched one of these keywords")
	f.IntVarP(&o.minScore, "min-score", "m", 0, "minimum match score")
	f.BoolVar(&o.asc, "asc", false, "lowest score first")
	f.BoolVarP(&o.all, "all", "a", false, "ignore the configured default filters")
	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOpts, o *searchOpts) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	opt := rank.Options{Keywords: o.keywords, Reverse: o.asc}
	if !o.all {
		opt.Locations = cfg.Filters.Locations
		opt.MinScore = cfg.Filters.MinScore
	}
	if cmd.Flags().Changed("location") {
		opt.Locations = o.locations
	}
	if cmd.Flags().Changed("min-score") {
		if o.minScore < 0 || o.minScore > 100 {
			return fmt.Errorf("--min-score must be between 0 and 100")
		}
		opt.MinScore = o.minScore
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var fetchers []types.Fetcher
	if o.url != "" {
		fetchers = []types.Fetcher{scrape.SingleURL(cfg, o.url)}
	} else {
		fetchers = scrape.BuildFetchers(cfg, secrets.ForSource)
	}

	outcomes := scrape.Run(ctx, fetchers, cfg.Fetch.Concurrency)
	out := cmd.OutOrStdout()
	for _, oc := range outcomes {
		if oc.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", oc.Source, oc.Err)
		}
		for _, fe := range oc.Failed {
			slog.Warn("search: url failed", "source", oc.Source, "url", fe.URL, "status", fe.Status, "err", fe.Err)
		}
	}

	rs := rank.Build(search.Score(cfg, scrape.Fragments(outcomes)), opt)
	printResults(out, rs)

	scrape.Finalize(context.WithoutCancel(ctx), outcomes)
	return nil
}
