package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

// Alert is the decoded content of a job-alert e-mail.
type Alert struct {
	Subject string
	HTML    string
}

// Decode reads the subject and the first text/html part of a raw RFC822 message.
func Decode(raw []byte) (Alert, error) {
	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return Alert{}, fmt.Errorf("read message: %w", err)
	}
	defer mr.Close()

	var a Alert
	a.Subject, _ = mr.Header.Subject()

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return a, fmt.Errorf("read part: %w", err)
		}
		h, ok := p.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		if ct != "text/html" {
			continue
		}
		b, err := io.ReadAll(p.Body)
		if err != nil {
			return a, fmt.Errorf("read html part: %w", err)
		}
		a.HTML = string(b)
		break
	}
	return a, nil
}

// Items returns the outer HTML of every element in body matching itemSelector.
func Items(body, itemSelector string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out []string
	doc.Find(itemSelector).Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			out = append(out, h)
		}
	})
	return out, nil
}
