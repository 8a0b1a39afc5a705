// Package notify pushes high-scoring listings to a chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, listings []domain.ScoredListing) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, []domain.ScoredListing) error { return nil }

// Select returns the listings scoring at least minScore, in input order.
func Select(listings []domain.ScoredListing, minScore int) []domain.ScoredListing {
	var out []domain.ScoredListing
	for _, l := range listings {
		if l.MatchScore >= minScore {
			out = append(out, l)
		}
	}
	return out
}

var mdV2 = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(s string) string { return mdV2.Replace(s) }

// FormatListing renders a listing as a Telegram MarkdownV2 message.
func FormatListing(l domain.ScoredListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(l.Title))
	if l.Company != "" {
		fmt.Fprintf(&b, "🏢 %s\n", escapeMarkdown(l.Company))
	}
	if l.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(l.Location))
	}
	if l.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(l.Salary))
	}
	fmt.Fprintf(&b, "⭐ Match %d%%\n", l.MatchScore)
	if kws := l.Matched.All(); len(kws) > 0 {
		fmt.Fprintf(&b, "🔑 %s\n", escapeMarkdown(strings.Join(kws, ", ")))
	}
	if l.Link != "" && l.Link != "#" {
		// Only ')' and '\' need escaping inside the link target.
		fmt.Fprintf(&b, "🔗 [Zur Anzeige](%s)\n", strings.NewReplacer(`\`, `\\`, ")", `\)`).Replace(l.Link))
	}
	return b.String()
}
