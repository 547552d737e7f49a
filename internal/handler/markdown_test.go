package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownSanitizes(t *testing.T) {
	out, err := renderMarkdown("**bold** <script>alert(1)</script>")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "plain", input: "short text", limit: 20, want: "short text"},
		{name: "markdown stripped", input: "# Title\n\nSome *words* & more", limit: 100, want: "Title Some words & more"},
		{name: "truncated", input: "abcdefghij", limit: 4, want: "abcd…"},
		{name: "cyrillic", input: "Привет, мир", limit: 6, want: "Привет…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excerpt(tt.input, tt.limit))
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/posts/1":             "/posts/1",
		"":                     "",
		"//evil.example":       "",
		"/\\evil.example":      "",
		"https://evil.example": "",
	}
	for input, want := range tests {
		assert.Equal(t, want, safeNext(input), "safeNext(%q)", input)
	}
}
