package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Message is the metadata view of one Gmail message.
type Message struct {
	ID           string
	Subject      string
	From         string
	Date         string
	Snippet      string
	InternalDate time.Time
}

// Mailbox is the slice of the Gmail API this package uses.
type Mailbox interface {
	List(ctx context.Context, query string, max int64) ([]string, error)
	Get(ctx context.Context, id string) (*Message, error)
	// Body returns the message's readable text, or "" when it has none.
	Body(ctx context.Context, id string) (string, error)
	MarkRead(ctx context.Context, id string) error
}

// MailboxFactory opens a Mailbox over a user's authorized Google client.
type MailboxFactory func(ctx context.Context, client *http.Client) (Mailbox, error)

// NewAPIMailbox is the MailboxFactory backed by google.golang.org/api/gmail/v1.
func NewAPIMailbox(ctx context.Context, client *http.Client) (Mailbox, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &apiMailbox{svc: svc}, nil
}

type apiMailbox struct {
	svc *gmailapi.Service
}

func (m *apiMailbox) List(ctx context.Context, query string, max int64) ([]string, error) {
	resp, err := m.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

func (m *apiMailbox) Get(ctx context.Context, id string) (*Message, error) {
	msg, err := m.svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("Subject", "From", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	out := &Message{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}
	if msg.InternalDate > 0 {
		out.InternalDate = time.UnixMilli(msg.InternalDate)
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				out.Subject = h.Value
			case "From":
				out.From = h.Value
			case "Date":
				out.Date = h.Value
			}
		}
	}
	return out, nil
}

func (m *apiMailbox) Body(ctx context.Context, id string) (string, error) {
	msg, err := m.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if body := payloadText(msg.Payload); body != "" {
		return body, nil
	}
	return msg.Snippet, nil
}

func (m *apiMailbox) MarkRead(ctx context.Context, id string) error {
	_, err := m.svc.Users.Messages.Modify("me", id, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	return err
}

// payloadText returns the payload's own body if it has one, otherwise the
// first text/plain part found in the tree, then the first text/html part.
func payloadText(p *gmailapi.MessagePart) string {
	if p == nil {
		return ""
	}
	if p.Body != nil && p.Body.Data != "" {
		return decodePart(p.Body.Data)
	}
	plain, html := findParts(p.Parts)
	if plain != "" {
		return plain
	}
	return html
}

func findParts(parts []*gmailapi.MessagePart) (plain, html string) {
	for _, part := range parts {
		hasData := part.Body != nil && part.Body.Data != ""
		switch {
		case part.MimeType == "text/plain" && hasData:
			if plain == "" {
				plain = decodePart(part.Body.Data)
			}
		case part.MimeType == "text/html" && hasData:
			if html == "" {
				html = decodePart(part.Body.Data)
			}
		case len(part.Parts) > 0:
			p, h := findParts(part.Parts)
			if plain == "" {
				plain = p
			}
			if html == "" {
				html = h
			}
		}
	}
	return plain, html
}

// decodePart decodes Gmail's base64url body data; padding is optional.
func decodePart(data string) string {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(raw)
}
