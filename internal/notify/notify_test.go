package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

func scored(title string, score int) domain.ScoredListing {
	return domain.ScoredListing{
		Listing:    domain.Listing{Title: title, Company: "ACME GmbH", Location: "Wien", Link: "https://www.karriere.at/jobs/1"},
		MatchScore: score,
		Matched:    domain.MatchDetails{Perfect: []string{"head", "hr"}},
	}
}

func TestSelect(t *testing.T) {
	got := Select([]domain.ScoredListing{scored("a", 95), scored("b", 80), scored("c", 90)}, 90)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

func TestFormatListing(t *testing.T) {
	msg := FormatListing(scored("Head of HR (m/w/d)", 92))
	assert.Contains(t, msg, `*Head of HR \(m/w/d\)*`)
	assert.Contains(t, msg, "Match 92%")
	assert.Contains(t, msg, "head, hr")
	assert.Contains(t, msg, "(https://www.karriere.at/jobs/1)")

	l := scored("x", 60)
	l.Link = "#"
	assert.NotContains(t, FormatListing(l), "Zur Anzeige")
}

func TestTelegramNotify(t *testing.T) {
	var sent atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"jobs","username":"jobs_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "42", r.FormValue("chat_id"))
			assert.Equal(t, "MarkdownV2", r.FormValue("parse_mode"))
			sent.Add(1)
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tg, err := newTelegramWithEndpoint("tok", srv.URL+"/bot%s/%s", 42, 90)
	require.NoError(t, err)

	err = tg.Notify(context.Background(), []domain.ScoredListing{scored("a", 95), scored("b", 70), scored("c", 99)})
	require.NoError(t, err)
	assert.Equal(t, int32(2), sent.Load())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), []domain.ScoredListing{scored("a", 99)}))
}
