package mailkit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DevSender is a Sender for local development that writes each message to
// disk instead of delivering it: an .html file with the rendered body and a
// .json file with the message metadata.
type DevSender struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewDevSender creates a sender that saves messages under dir.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{
		dir:    dir,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// devMetadata is the JSON sidecar written next to each saved message.
type devMetadata struct {
	Subject     string          `json:"subject"`
	From        string          `json:"from"`
	ReplyTo     string          `json:"reply_to,omitempty"`
	To          []string        `json:"to"`
	CC          []string        `json:"cc,omitempty"`
	BCC         []string        `json:"bcc,omitempty"`
	MessageID   string          `json:"message_id,omitempty"`
	Date        time.Time       `json:"date"`
	Tags        []string        `json:"tags,omitempty"`
	Attachments []devAttachment `json:"attachments,omitempty"`
}

type devAttachment struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type"`
	Disposition string `json:"disposition"`
	Size        int    `json:"size"`
}

// Send implements Sender by writing the message to the configured directory.
func (s *DevSender) Send(ctx context.Context, msg *Message) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("dev sender: create directory: %w", err)
	}

	base := fmt.Sprintf("%s_%s", s.now().Format("2006_01_02_150405"), fileSlug(msg))

	body := msg.HTML
	if body == "" {
		body = "<pre>" + msg.Body + "</pre>"
	}
	htmlPath := filepath.Join(s.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(body), 0o644); err != nil {
		return fmt.Errorf("dev sender: write html: %w", err)
	}

	meta := devMetadata{
		Subject:   msg.Subject,
		From:      msg.From,
		ReplyTo:   msg.ReplyTo,
		To:        msg.To,
		CC:        msg.CC,
		BCC:       msg.BCC,
		MessageID: msg.MessageID,
		Date:      msg.Date,
	}
	for name := range msg.Tags {
		meta.Tags = append(meta.Tags, name)
	}
	sort.Strings(meta.Tags)
	for _, a := range msg.Attachments {
		meta.Attachments = append(meta.Attachments, devAttachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Disposition: a.Disposition,
			Size:        len(a.Content),
		})
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("dev sender: marshal metadata: %w", err)
	}
	jsonPath := filepath.Join(s.dir, base+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("dev sender: write metadata: %w", err)
	}

	s.logger.InfoContext(ctx, "dev sender: message saved",
		slog.String("html", htmlPath),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// fileSlug derives a filesystem-safe name fragment from the first tag in
// sorted order, falling back to the subject.
func fileSlug(msg *Message) string {
	name := ""
	if len(msg.Tags) > 0 {
		names := make([]string, 0, len(msg.Tags))
		for tag := range msg.Tags {
			names = append(names, tag)
		}
		sort.Strings(names)
		name = names[0]
	}
	if name == "" {
		name = msg.Subject
	}
	if name == "" {
		name = "message"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
