// Package mail turns job-alert e-mails from an IMAP mailbox into listing fragments.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emersion/go-imap/v2"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/scrape/types"
	"github.com/JFdC77/job-search-assistant/internal/scrape/util"
)

// PasswordFunc returns the IMAP password for a source.
type PasswordFunc func(src config.Source) (string, error)

type Fetcher struct {
	src      config.Source
	password PasswordFunc
}

func New(src config.Source, password PasswordFunc) *Fetcher {
	return &Fetcher{src: src, password: password}
}

func (f *Fetcher) Name() string { return f.src.Name }

func (f *Fetcher) addr() string {
	addr := f.src.Mail.IMAPHost
	if strings.Contains(addr, ":") {
		return addr
	}
	port := f.src.Mail.IMAPPort
	if port == 0 {
		port = 993
	}
	return fmt.Sprintf("%s:%d", addr, port)
}

func (f *Fetcher) mailbox() string {
	if f.src.Mail.Mailbox == "" {
		return "INBOX"
	}
	return f.src.Mail.Mailbox
}

// Fetch scans unseen messages. Matching alerts are split into html fragments;
// the messages are marked seen by the result's Finalize.
func (f *Fetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: f.src.Name}

	pw, err := f.password(f.src)
	if err != nil {
		return res, fmt.Errorf("mail %s: password: %w", f.src.Name, err)
	}

	c, release, err := DialAndLoginIMAP(ctx, f.addr(), f.src.Mail.Username, pw)
	if err != nil {
		return res, err
	}
	defer release()

	if _, err := c.Select(f.mailbox(), &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return res, fmt.Errorf("imap select %q: %w", f.mailbox(), err)
	}

	msgs, err := FetchUnseen(ctx, c, f.src.Mail.MaxMessages)
	if err != nil {
		return res, err
	}

	var processed []imap.UID
	for _, m := range msgs {
		frags, err := f.Fragments(m.Raw)
		if err != nil {
			slog.Warn("mail: message skipped", "source", f.src.Name, "uid", m.UID, "err", err)
			res.Failed = append(res.Failed, &types.FetchError{URL: fmt.Sprintf("imap://%s/%s;uid=%d", f.addr(), f.mailbox(), m.UID), Err: err})
			continue
		}
		if frags == nil {
			continue
		}
		res.Fragments = append(res.Fragments, frags...)
		processed = append(processed, m.UID)
	}
	slog.Info("mail: scanned", "source", f.src.Name, "messages", len(msgs), "alerts", len(processed), "fragments", len(res.Fragments))

	if len(processed) > 0 {
		res.Finalize = func(ctx context.Context) error { return f.markSeen(ctx, processed) }
	}
	return res, nil
}

// Fragments decodes a raw message and returns its listing containers.
// A nil slice means the subject did not match the configured alert terms.
func (f *Fetcher) Fragments(raw []byte) ([]domain.Fragment, error) {
	alert, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if len(f.src.Mail.SubjectAny) > 0 && !util.ContainsAnyCI(alert.Subject, f.src.Mail.SubjectAny) {
		return nil, nil
	}

	items, err := Items(alert.HTML, f.src.ItemSelector)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Fragment, 0, len(items))
	for _, body := range items {
		out = append(out, domain.Fragment{
			Source:  f.src.Name,
			Kind:    domain.FragmentHTML,
			Body:    body,
			BaseURL: f.src.BaseURL,
		})
	}
	return out, nil
}

func (f *Fetcher) markSeen(ctx context.Context, uids []imap.UID) error {
	pw, err := f.password(f.src)
	if err != nil {
		return err
	}
	c, release, err := DialAndLoginIMAP(ctx, f.addr(), f.src.Mail.Username, pw)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.Select(f.mailbox(), nil).Wait(); err != nil {
		return fmt.Errorf("imap select %q: %w", f.mailbox(), err)
	}
	return MarkSeen(c, uids)
}
