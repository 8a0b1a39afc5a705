package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JFdC77/job-search-assistant/internal/config"
)

type rootOpts struct {
	configPath   string
	keywordsPath string
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "jobsearch",
		Short:         "HR job search assistant for the DACH region",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config.yml (defaults to the built-in configuration)")
	cmd.PersistentFlags().StringVar(&o.keywordsPath, "keywords", "", "keywords.yml overriding the keyword tables")

	cmd.AddCommand(newSearchCmd(o), newNormalizeCmd(o), newScoreCmd(o))
	return cmd
}

// load returns the configuration the subcommands work with.
func (o *rootOpts) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.keywordsPath != "" {
		if err := config.OverlayKeywords(&cfg, o.keywordsPath); err != nil {
			return cfg, err
		}
	}
	if err := config.OverlayEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}

	cfg, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return cfg, errors.New("invalid config:\n- " + strings.Join(vr.Errors, "\n- "))
	}
	return cfg, nil
}
