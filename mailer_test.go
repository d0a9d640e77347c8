package mailkit

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of the Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.From == "support@mysite.com" &&
			msg.To[0] == "to@example.com" &&
			msg.Body == "testing" &&
			msg.MessageID != "" &&
			!msg.Date.IsZero()
	})).Return(nil)

	msg := NewMessage("testing", "to@example.com")
	msg.Body = "testing"

	require.NoError(t, m.Send(context.Background(), msg))
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_ValidationFailures(t *testing.T) {
	t.Parallel()

	t.Run("no default sender", func(t *testing.T) {
		t.Parallel()

		mockSender := &MockSender{}
		m := New(mockSender, nil, Config{})

		msg := NewMessage("testing", "to@example.com")
		msg.Body = "testing"

		require.ErrorIs(t, m.Send(context.Background(), msg), ErrNoSender)
		mockSender.AssertNotCalled(t, "Send")
	})

	t.Run("no recipients", func(t *testing.T) {
		t.Parallel()

		mockSender := &MockSender{}
		m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

		msg := NewMessage("testing")
		msg.Body = "testing"

		require.ErrorIs(t, m.Send(context.Background(), msg), ErrNoRecipient)
		mockSender.AssertNotCalled(t, "Send")
	})

	t.Run("bad header", func(t *testing.T) {
		t.Parallel()

		mockSender := &MockSender{}
		m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

		msg := NewMessage("testing\n\r", "to@example.com")
		msg.Body = "testing"

		require.ErrorIs(t, m.Send(context.Background(), msg), ErrBadHeader)
		mockSender.AssertNotCalled(t, "Send")
	})
}

func TestMailer_Send_SenderFailure(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

	senderErr := errors.New("connection refused")
	mockSender.On("Send", mock.Anything, mock.Anything).Return(senderErr)

	msg := NewMessage("testing", "to@example.com")
	msg.Body = "testing"

	err := m.Send(context.Background(), msg)
	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, senderErr)
}

func TestMailer_Send_ExplicitSenderWins(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.From == "spammer <spammer@example.com>"
	})).Return(nil)

	msg := NewMessage("testing", "to@example.com")
	msg.From = "spammer <spammer@example.com>"
	msg.Body = "testing"

	require.NoError(t, m.Send(context.Background(), msg))
	mockSender.AssertExpectations(t)
}

func TestMailer_NewMessage_DefaultSender(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, nil, Config{DefaultSender: "support@mysite.com"})

	msg := m.NewMessage("subject", "to@example.com")
	require.Equal(t, "support@mysite.com", msg.From)
	require.Equal(t, []string{"to@example.com"}, msg.To)
}

func TestMailer_SendMessage(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, nil, Config{
		DefaultSender: "support@mysite.com",
		Suppress:      true,
	})

	outbox, stop := m.Record()
	defer stop()

	err := m.SendMessage(context.Background(), SendParams{
		Subject: "testing",
		To:      []string{"tester@example.com"},
		Body:    "test",
	})
	require.NoError(t, err)

	require.Equal(t, 1, outbox.Len())
	msg := outbox.Last()
	require.Equal(t, "testing", msg.Subject)
	require.Equal(t, []string{"tester@example.com"}, msg.To)
	require.Equal(t, "test", msg.Body)
}

func TestMailer_Suppress_RecordsWithoutSending(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{
		DefaultSender: "support@mysite.com",
		Suppress:      true,
	})

	outbox, stop := m.Record()
	defer stop()

	msg := NewMessage("testing", "to@example.com")
	msg.Body = "testing"

	require.NoError(t, m.Send(context.Background(), msg))
	require.Equal(t, 1, outbox.Len())
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Suppress_StillValidates(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, nil, Config{Suppress: true})

	outbox, stop := m.Record()
	defer stop()

	msg := NewMessage("testing", "to@example.com")
	msg.Body = "testing"

	require.ErrorIs(t, m.Send(context.Background(), msg), ErrNoSender)
	require.Equal(t, 0, outbox.Len())
}

func TestMailer_Record_StopDetaches(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.Anything).Return(nil)
	m := New(mockSender, nil, Config{DefaultSender: "support@mysite.com"})

	outbox, stop := m.Record()

	msg := NewMessage("one", "to@example.com")
	msg.Body = "testing"
	require.NoError(t, m.Send(context.Background(), msg))

	stop()

	msg2 := NewMessage("two", "to@example.com")
	msg2.Body = "testing"
	require.NoError(t, m.Send(context.Background(), msg2))

	require.Equal(t, 1, outbox.Len())
	require.Equal(t, "one", outbox.Last().Subject)
}

func TestMailer_SendTemplate_Success(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Content}}</body></html>`),
		},
		"welcome.md": &fstest.MapFile{
			Data: []byte(`---
Subject: Welcome {{.Name}}
---
Hello **{{.Name}}**!
`),
		},
	}

	mockSender := &MockSender{}
	renderer := NewRendererWithConfig(fs, RendererConfig{LayoutDir: "layouts"})
	m := New(mockSender, renderer, Config{
		DefaultSender:   "support@mysite.com",
		DefaultLayout:   "base.html",
		FallbackSubject: "Notification",
	})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.To[0] == "alice@example.com" &&
			msg.Subject == "Welcome Alice" &&
			len(msg.HTML) > 0 &&
			len(msg.Body) > 0
	})).Return(nil)

	err := m.SendTemplate(context.Background(), TemplateParams{
		To:       "alice@example.com",
		Template: "welcome.md",
		Data:     map[string]string{"Name": "Alice"},
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_SendTemplate_FallbackSubject(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html>{{.Content}}</html>`),
		},
		"plain.md": &fstest.MapFile{
			Data: []byte(`Hello world`),
		},
	}

	mockSender := &MockSender{}
	renderer := NewRendererWithConfig(fs, RendererConfig{LayoutDir: "layouts"})
	m := New(mockSender, renderer, Config{
		DefaultSender:   "support@mysite.com",
		DefaultLayout:   "base.html",
		FallbackSubject: "Notification",
	})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(msg *Message) bool {
		return msg.Subject == "Notification"
	})).Return(nil)

	err := m.SendTemplate(context.Background(), TemplateParams{
		To:       "user@example.com",
		Template: "plain.md",
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_SendTemplate_RenderFailure(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	renderer := NewRenderer(fstest.MapFS{})
	m := New(mockSender, renderer, Config{
		DefaultSender: "support@mysite.com",
		DefaultLayout: "missing.html",
	})

	err := m.SendTemplate(context.Background(), TemplateParams{
		To:       "user@example.com",
		Template: "nonexistent.md",
	})

	require.ErrorIs(t, err, ErrRenderFailed)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_SendTemplate_NoRenderer(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, nil, Config{DefaultSender: "support@mysite.com"})

	err := m.SendTemplate(context.Background(), TemplateParams{
		To:       "user@example.com",
		Template: "welcome.md",
	})

	require.ErrorIs(t, err, ErrNoRenderer)
}
