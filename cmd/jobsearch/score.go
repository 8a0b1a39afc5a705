package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/match"
)

func newScoreCmd(root *rootOpts) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a title and description against the keyword tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			score, details := match.New(cfg.Matching).Score(domain.Listing{Title: title, Description: description})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score:  %s\n", colorScore(score))
			fmt.Fprintf(out, "high:   %s\n", orNone(details.Perfect))
			fmt.Fprintf(out, "medium: %s\n", orNone(details.Good))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "job title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "job description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func orNone(xs []string) string {
	if len(xs) == 0 {
		return "-"
	}
	return strings.Join(xs, ", ")
}
