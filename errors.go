package mailkit

import "errors"

var (
	// ErrBadHeader indicates a header value contains CR or LF characters.
	// Rejecting these prevents header injection attacks.
	ErrBadHeader = errors.New("header value contains newline characters")

	// ErrNoSender indicates the message has no sender and no default is configured.
	ErrNoSender = errors.New("message must have a sender")

	// ErrNoRecipient indicates the message has no recipients.
	ErrNoRecipient = errors.New("message must have at least one recipient")

	// ErrNoBody indicates the message has neither a plain-text nor an HTML body.
	ErrNoBody = errors.New("message must have a text or HTML body")

	// ErrNoRenderer indicates a templated send was attempted without a renderer.
	ErrNoRenderer = errors.New("mailer has no template renderer")

	// ErrConnectionClosed indicates a send was attempted on a released connection.
	ErrConnectionClosed = errors.New("connection already closed")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates message delivery failed.
	ErrSendFailed = errors.New("failed to send message")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
