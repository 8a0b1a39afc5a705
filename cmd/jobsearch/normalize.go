package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JFdC77/job-search-assistant/internal/parse"
)

func newNormalizeCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <location>...",
		Short:   "Map raw location strings to their canonical city",
		Example: `  jobsearch normalize "Baden-Württemberg" "1010 Wien"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			loc := parse.New(cfg).Locations()
			for _, a := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a, loc.Normalize(a))
			}
			return nil
		},
	}
}
