// Package imap fetches inbox messages for password-credential accounts. It
// mirrors the Gmail fetcher's contract: a bounded batch of recent messages,
// newest first, with the plain-text body already extracted.
package imap

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Login holds the credentials stored in an "imap" integration.
type Login struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Message is one fetched inbox message. ThreadID carries the RFC 5322
// Message-Id header, the stable identifier used for deduplication.
type Message struct {
	ID       string
	ThreadID string
	Body     string
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ListRecentMessages fetches up to maxResults of the newest INBOX messages.
func (s *Service) ListRecentMessages(login Login, maxResults uint32) ([]Message, error) {
	c, err := client.DialTLS(login.Host, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to dial %s: %v", login.Host, err)
	}
	defer c.Logout()

	if err := c.Login(login.Username, login.Password); err != nil {
		return nil, fmt.Errorf("imap login failed: %v", err)
	}

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("unable to select INBOX: %v", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > maxResults {
		from = mbox.Messages - maxResults + 1
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	msgChan := make(chan *imap.Message, maxResults)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, msgChan)
	}()

	messages := make([]Message, 0, maxResults)
	for msg := range msgChan {
		body := extractPlainTextBody(msg.GetBody(section))

		threadID := ""
		if msg.Envelope != nil {
			threadID = msg.Envelope.MessageId
		}

		messages = append(messages, Message{
			ID:       fmt.Sprint(msg.Uid),
			ThreadID: threadID,
			Body:     body,
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to fetch messages: %v", err)
	}

	// IMAP returns ascending sequence numbers; flip to newest first to
	// match the Gmail listing order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func extractPlainTextBody(r io.Reader) string {
	if r == nil {
		return ""
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		if !strings.EqualFold(contentType, "text/plain") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return ""
		}
		return string(body)
	}
}
