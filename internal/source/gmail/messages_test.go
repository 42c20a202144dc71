package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"notifyhub/internal/session"
	"notifyhub/internal/source"
)

func newMessages(mb Mailbox) *Messages {
	return NewMessages(func(context.Context, *http.Client) (Mailbox, error) { return mb, nil })
}

func TestMessages_MarkRead(t *testing.T) {
	mb := &fakeMailbox{}
	m := newMessages(mb)

	require.NoError(t, m.MarkRead(context.Background(), linked, "abc"))
	assert.Equal(t, []string{"abc"}, mb.read)

	assert.ErrorIs(t, m.MarkRead(context.Background(), linked, ""), ErrMissingMessageID)
	assert.ErrorIs(t, m.MarkRead(context.Background(), &session.Session{UserID: 1}, "abc"), source.ErrNotLinked)

	mb.err = errors.New("quota")
	assert.Error(t, m.MarkRead(context.Background(), linked, "abc"))
}

func TestMessages_Content(t *testing.T) {
	mb := &fakeMailbox{bodies: map[string]string{"abc": "hello"}}
	m := newMessages(mb)

	got, err := m.Content(context.Background(), linked, "abc")
	require.NoError(t, err)
	assert.Equal(t, &Content{
		MessageID:   "abc",
		FullContent: "hello",
		Link:        "https://mail.google.com/mail/u/0/#inbox/abc",
	}, got)

	got, err = m.Content(context.Background(), linked, "empty")
	require.NoError(t, err)
	assert.Equal(t, NoContent, got.FullContent)
}

func b64(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

func TestPayloadText(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmailapi.MessagePart
		want    string
	}{
		{name: "nil payload", payload: nil, want: ""},
		{
			name:    "direct body",
			payload: &gmailapi.MessagePart{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("plain body")}},
			want:    "plain body",
		},
		{
			name: "plain preferred over html",
			payload: &gmailapi.MessagePart{MimeType: "multipart/alternative", Parts: []*gmailapi.MessagePart{
				{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<p>hi</p>")}},
				{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("hi")}},
			}},
			want: "hi",
		},
		{
			name: "nested html only",
			payload: &gmailapi.MessagePart{MimeType: "multipart/mixed", Parts: []*gmailapi.MessagePart{
				{MimeType: "application/pdf", Body: &gmailapi.MessagePartBody{AttachmentId: "att"}},
				{MimeType: "multipart/alternative", Parts: []*gmailapi.MessagePart{
					{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<b>ünïcode?</b>")}},
				}},
			}},
			want: "<b>ünïcode?</b>",
		},
		{
			name:    "unpadded data",
			payload: &gmailapi.MessagePart{Body: &gmailapi.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("ab"))}},
			want:    "ab",
		},
		{name: "no text parts", payload: &gmailapi.MessagePart{MimeType: "multipart/mixed"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payloadText(tt.payload))
		})
	}
}
