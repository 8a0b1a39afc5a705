package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

func colorScore(score int) string {
	switch {
	case score >= 90:
		return color.New(color.FgGreen, color.Bold).Sprintf("%d", score)
	case score >= 80:
		return color.GreenString("%d", score)
	case score >= 70:
		return color.YellowString("%d", score)
	default:
		return color.RedString("%d", score)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func printResults(w io.Writer, rs domain.ResultSet) {
	if rs.Empty() {
		fmt.Fprintln(w, "Keine passenden Positionen gefunden.")
		return
	}

	fmt.Fprintf(w, "Gefunden: %d passende Positionen\n\n", len(rs.Listings))
	fmt.Fprintf(w, "%-5s %-3s %-34s %-22s %-12s %s\n", "Score", "#", "Titel", "Unternehmen", "Ort", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, l := range rs.Listings {
		// Pad before colouring; escape codes would break the column width.
		score := colorScore(l.MatchScore) + strings.Repeat(" ", max(0, 5-len(fmt.Sprint(l.MatchScore))))
		fmt.Fprintf(w, "%s %-3d %-34s %-22s %-12s %s\n", score, l.ID,
			truncate(l.Title, 34), truncate(l.Company, 22), truncate(l.Location, 12), l.Link)
	}

	fmt.Fprintln(w)
	avg := "n/a"
	if !math.IsNaN(rs.Stats.AvgScore) {
		avg = fmt.Sprintf("%.1f", rs.Stats.AvgScore)
	}
	fmt.Fprintf(w, "Ø Match Score: %s\n", avg)

	locs := make([]string, 0, len(rs.Stats.Locations))
	for loc := range rs.Stats.Locations {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	for _, loc := range locs {
		fmt.Fprintf(w, "  %-14s %d\n", loc, rs.Stats.Locations[loc])
	}
}
