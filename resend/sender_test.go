package resend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit"
)

func TestBuildRequest_Mapping(t *testing.T) {
	t.Parallel()

	s := New(Config{APIKey: "re_test"})

	msg := mailkit.NewMessage("testing", "to@example.com")
	msg.From = "Team <team@example.com>"
	msg.ReplyTo = "replies@example.com"
	msg.CC = []string{"cc@example.com"}
	msg.BCC = []string{"bcc@example.com"}
	msg.Body = "plain"
	msg.HTML = "<b>html</b>"
	msg.Headers = map[string]string{"X-Campaign": "summer"}

	req := s.buildRequest(msg)

	require.Equal(t, "Team <team@example.com>", req.From)
	require.Equal(t, []string{"to@example.com"}, req.To)
	require.Equal(t, "testing", req.Subject)
	require.Equal(t, "plain", req.Text)
	require.Equal(t, "<b>html</b>", req.Html)
	require.Equal(t, "replies@example.com", req.ReplyTo)
	require.Equal(t, []string{"cc@example.com"}, req.Cc)
	require.Equal(t, []string{"bcc@example.com"}, req.Bcc)
	require.Equal(t, "summer", req.Headers["X-Campaign"])
}

func TestBuildRequest_DefaultSenderFromConfig(t *testing.T) {
	t.Parallel()

	s := New(Config{
		APIKey:    "re_test",
		FromEmail: "team@example.com",
		FromName:  "Team",
	})

	msg := mailkit.NewMessage("testing", "to@example.com")
	msg.Body = "testing"

	req := s.buildRequest(msg)
	require.Equal(t, "Team <team@example.com>", req.From)
}

func TestBuildRequest_Attachments(t *testing.T) {
	t.Parallel()

	s := New(Config{APIKey: "re_test"})

	msg := mailkit.NewMessage("testing", "to@example.com")
	msg.Body = "testing"
	msg.Attach("guide.pdf", "application/pdf", []byte("%PDF-1.4"))
	msg.AttachInline("logo", "logo.png", "image/png", []byte{0x89})

	req := s.buildRequest(msg)
	require.Len(t, req.Attachments, 2)
	require.Equal(t, "guide.pdf", req.Attachments[0].Filename)
	require.Equal(t, "application/pdf", req.Attachments[0].ContentType)
	require.Equal(t, []byte("%PDF-1.4"), req.Attachments[0].Content)
	require.Equal(t, "logo", req.Attachments[1].ContentId)
}

func TestConvertTags(t *testing.T) {
	t.Parallel()

	tags := convertTags(mailkit.Tags{"welcome": struct{}{}})
	require.Len(t, tags, 1)
	require.Equal(t, "welcome", tags[0].Name)
	require.Equal(t, "true", tags[0].Value)
}

func TestTagValue(t *testing.T) {
	t.Parallel()

	require.Equal(t, "true", tagValue(struct{}{}))
	require.Equal(t, "true", tagValue(nil))
	require.Equal(t, "summer-2024", tagValue("summer-2024"))
	require.Equal(t, "false", tagValue(false))
	require.Equal(t, "42", tagValue(42))
	require.Equal(t, "42", tagValue(int64(42)))
	require.Equal(t, "1.5", tagValue(1.5))
}
