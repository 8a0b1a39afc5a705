package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is an unseen e-mail as fetched from the mailbox.
type Message struct {
	UID     imap.UID
	Subject string
	Date    time.Time

	// Raw is the full RFC822 message, fetched with BODY.PEEK[] so it stays unseen.
	Raw []byte
}

// DialAndLoginIMAP connects over TLS and logs in. The returned release func
// logs out and closes the connection; callers must call it exactly once.
func DialAndLoginIMAP(ctx context.Context, addr, username, password string) (*imapclient.Client, func(), error) {
	if addr == "" {
		return nil, nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, nil, errors.New("imap username/password is required")
	}

	host := addr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		host = addr[:i]
	}
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Unblock pending commands when the context ends.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(username, password).Wait(); err != nil {
		stop()
		_ = c.Close()
		return nil, nil, fmt.Errorf("imap login: %w", err)
	}
	return c, func() {
		stop()
		logoutAndClose(c)
	}, nil
}

// FetchUnseen returns up to max unseen messages from the last three months, newest first.
func FetchUnseen(ctx context.Context, c *imapclient.Client, max int) ([]Message, error) {
	if max <= 0 {
		max = 50
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -3, 0),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		m := Message{UID: buf.UID}
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			m.Date = buf.Envelope.Date
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.Raw = append([]byte(nil), b...)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

// MarkSeen sets \Seen on the given messages.
func MarkSeen(c *imapclient.Client, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store add seen: %w", err)
	}
	return nil
}

func logoutAndClose(c *imapclient.Client) {
	if c == nil {
		return
	}
	if err := c.Logout().Wait(); err != nil {
		slog.Debug("imap logout", "err", err)
	}
	_ = c.Close()
}
