package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
)

func crlf(s string) []byte { return []byte(strings.ReplaceAll(s, "\n", "\r\n")) }

var alertMail = crlf(`From: Job-Alarm <alerts@example.com>
To: me@example.com
Subject: =?UTF-8?Q?Job-Alarm:_3_neue_Jobs_f=C3=BCr_Sie?=
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/plain; charset=utf-8

Head of HR - ACME
--b1
Content-Type: text/html; charset=utf-8
Content-Transfer-Encoding: quoted-printable

<html><body>
<div class=3D"m-jobsListItem"><h2><a href=3D"/jobs/1">Head of HR</a></h2></div>
<div class=3D"m-jobsListItem"><h2><a href=3D"/jobs/2">F=C3=BChrungskraft Personal</a></h2></div>
</body></html>
--b1--
`)

func alertSource() config.Source {
	return config.Source{
		Name:         "job-alerts",
		Kind:         config.KindMail,
		BaseURL:      "https://www.karriere.at",
		ItemSelector: ".m-jobsListItem",
		Selectors:    config.Selectors{Title: "h2"},
		Mail:         config.MailSource{SubjectAny: []string{"job-alarm"}},
	}
}

func TestDecode(t *testing.T) {
	a, err := Decode(alertMail)
	require.NoError(t, err)
	assert.Equal(t, "Job-Alarm: 3 neue Jobs für Sie", a.Subject)
	assert.Contains(t, a.HTML, `class="m-jobsListItem"`)
	assert.Contains(t, a.HTML, "Führungskraft")
}

func TestFragments(t *testing.T) {
	f := New(alertSource(), nil)

	frags, err := f.Fragments(alertMail)
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, domain.FragmentHTML, frags[0].Kind)
	assert.Equal(t, "job-alerts", frags[0].Source)
	assert.Equal(t, "https://www.karriere.at", frags[0].BaseURL)
	assert.Contains(t, frags[1].Body, "Führungskraft Personal")
}

func TestFragments_SubjectMismatch(t *testing.T) {
	src := alertSource()
	src.Mail.SubjectAny = []string{"newsletter"}

	frags, err := New(src, nil).Fragments(alertMail)
	require.NoError(t, err)
	assert.Nil(t, frags)
}

func TestAddrDefaults(t *testing.T) {
	f := New(config.Source{Mail: config.MailSource{IMAPHost: "imap.example.com"}}, nil)
	assert.Equal(t, "imap.example.com:993", f.addr())
	assert.Equal(t, "INBOX", f.mailbox())

	f = New(config.Source{Mail: config.MailSource{IMAPHost: "imap.example.com", IMAPPort: 1993, Mailbox: "Jobs"}}, nil)
	assert.Equal(t, "imap.example.com:1993", f.addr())
	assert.Equal(t, "Jobs", f.mailbox())
}

func TestDialAndLoginIMAP_RequiresAddrAndCredentials(t *testing.T) {
	c, release, err := DialAndLoginIMAP(context.Background(), "", "me", "pw")
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Nil(t, release)

	_, release, err = DialAndLoginIMAP(context.Background(), "imap.example.com:993", "me", "")
	assert.ErrorContains(t, err, "username/password")
	assert.Nil(t, release)
}
