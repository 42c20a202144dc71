package gmail

import (
	"context"
	"errors"
	"fmt"

	"notifyhub/internal/session"
	"notifyhub/internal/source"
)

// NoContent is the body reported for a message with no text at all.
const NoContent = "No full content available."

var ErrMissingMessageID = errors.New("message id is required")

// Content is one message's readable body.
type Content struct {
	MessageID   string `json:"messageId"`
	FullContent string `json:"fullContent"`
	Link        string `json:"link"`
}

// Messages acts on single messages of the user's mailbox.
type Messages struct {
	open MailboxFactory
}

func NewMessages(open MailboxFactory) *Messages {
	return &Messages{open: open}
}

func (m *Messages) mailbox(ctx context.Context, sess *session.Session, id string) (Mailbox, error) {
	if !sess.GoogleLinked() {
		return nil, source.ErrNotLinked
	}
	if id == "" {
		return nil, ErrMissingMessageID
	}
	return m.open(ctx, sess.Google)
}

// MarkRead removes the UNREAD label from the message.
func (m *Messages) MarkRead(ctx context.Context, sess *session.Session, id string) error {
	mb, err := m.mailbox(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := mb.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark gmail message read: %w", err)
	}
	return nil
}

// Content fetches the message's full body, falling back to its snippet.
func (m *Messages) Content(ctx context.Context, sess *session.Session, id string) (*Content, error) {
	mb, err := m.mailbox(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	body, err := mb.Body(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gmail message body: %w", err)
	}
	if body == "" {
		body = NoContent
	}
	return &Content{MessageID: id, FullContent: body, Link: messageLink(id)}, nil
}

func messageLink(id string) string {
	return "https://mail.google.com/mail/u/0/#inbox/" + id
}
