package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/parse"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>HR Jobs</title>
<item><title>Leitung Personal</title><link>https://example.com/jobs/1</link><category>Wien</category></item>
<item><title>Recruiter</title><link>https://example.com/jobs/2</link></item>
</channel></rss>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "JobSearchAssistant/test", r.Header.Get("User-Agent"))
		if r.URL.Path == "/gone.rss" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer srv.Close()

	pc := util.NewPoliteClient("JobSearchAssistant/test", time.Second, util.NewHostLimiter(0, 1), false)
	f := New(config.Source{Name: "karriere-rss", URLs: []string{srv.URL + "/gone.rss", srv.URL + "/hr.rss"}}, pc)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, http.StatusGone, res.Failed[0].Status)

	require.Len(t, res.Fragments, 2)
	assert.Equal(t, domain.FragmentRSS, res.Fragments[0].Kind)
	assert.Contains(t, res.Fragments[0].Body, "<title>Leitung Personal</title>")
	assert.Contains(t, res.Fragments[0].Body, "<category>Wien</category>")
	assert.Contains(t, res.Fragments[1].Body, "Recruiter")
}

// Most feeds declare their namespaces once on <rss>; items must still parse on their own.
const nsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel><title>HR Jobs</title>
<item><title>Head of HR</title><link>https://example.com/jobs/7</link>
<dc:creator>ACME</dc:creator><content:encoded><![CDATA[<p>Führung</p>]]></content:encoded>
<category>Baden-Württemberg</category></item>
</channel></rss>`

func TestFetchThenParse_ChannelNamespaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(nsRSS))
	}))
	defer srv.Close()

	pc := util.NewPoliteClient("JobSearchAssistant/test", time.Second, util.NewHostLimiter(0, 1), false)
	frags, ferr := New(config.Source{Name: "karriere-rss"}, pc).FetchURL(context.Background(), srv.URL+"/hr.rss")
	require.Nil(t, ferr)
	require.Len(t, frags, 1)

	l, ok := parse.New(config.Default()).Parse(frags[0])
	require.True(t, ok, frags[0].Body)
	assert.Equal(t, "Head of HR", l.Title)
	assert.Equal(t, "ACME", l.Company)
	assert.Equal(t, "Stuttgart", l.Location)
	assert.Equal(t, "https://example.com/jobs/7", l.Link)
}
