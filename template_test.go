package mailkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate_WithFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte(`---
Subject: Welcome Email
Tag: onboarding
---
# Hello World

This is the email body.
`)

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Equal(t, "Welcome Email", tmpl.Metadata["Subject"])
	require.Equal(t, "onboarding", tmpl.Metadata["Tag"])
	require.Equal(t, "# Hello World\n\nThis is the email body.\n", tmpl.Body)
}

func TestParseTemplate_WithoutFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte(`# Hello World

Just plain markdown.`)

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Empty(t, tmpl.Metadata)
	require.Equal(t, string(content), tmpl.Body)
}

func TestParseTemplate_EmptyFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte(`---
---
Body content here.`)

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Empty(t, tmpl.Metadata)
	require.Equal(t, "Body content here.", tmpl.Body)
}

func TestParseTemplate_UnclosedFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte(`---
Subject: Broken
Body without closing delimiter`)

	_, err := ParseTemplate(content)
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseTemplate_InvalidYAML(t *testing.T) {
	t.Parallel()

	content := []byte(`---
Subject: [unterminated
---
Body`)

	_, err := ParseTemplate(content)
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseTemplate_CRLFLineEndings(t *testing.T) {
	t.Parallel()

	content := []byte("---\r\nSubject: Test\r\n---\r\nBody line.")

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Equal(t, "Test", tmpl.Metadata["Subject"])
	require.Equal(t, "Body line.", tmpl.Body)
}
