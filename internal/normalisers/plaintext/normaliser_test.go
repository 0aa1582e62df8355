package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()

	assert.Equal(t, 5, n.Priority())
	assert.Contains(t, n.SupportedMIMETypes(), "text/plain")
	assert.Contains(t, n.SupportedMIMETypes(), "application/json")
	assert.Contains(t, n.SupportedMIMETypes(), "application/rss+xml")
	assert.NotContains(t, n.SupportedMIMETypes(), "text/html")
}

func TestNormalise_NilPage(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name      string
		page      *domain.RawPage
		wantText  string
		wantTitle string
	}{
		{
			name:      "unix line endings",
			page:      &domain.RawPage{URI: "https://example.com/notes/setup_guide.txt", Content: []byte("line one\nline two\n")},
			wantText:  "line one\nline two",
			wantTitle: "setup guide",
		},
		{
			name:      "windows line endings",
			page:      &domain.RawPage{URI: "https://example.com/changelog", Content: []byte("  a\r\nb\r\n")},
			wantText:  "a\nb",
			wantTitle: "changelog",
		},
		{
			name:      "host only",
			page:      &domain.RawPage{URI: "https://example.com/", Content: []byte("root")},
			wantText:  "root",
			wantTitle: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().Normalise(context.Background(), tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, res.Text)
			assert.Equal(t, tt.wantTitle, res.Title)
			assert.Equal(t, "text/plain", res.ContentType)
		})
	}
}

func TestNormalise_KeepsPageMIMEType(t *testing.T) {
	page := &domain.RawPage{URI: "https://example.com/feed.json", MIMEType: "application/json", Content: []byte(`{"a":1}`)}

	res, err := New().Normalise(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, "application/json", res.ContentType)
	assert.Equal(t, `{"a":1}`, res.Text)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"byte order mark", []byte("\xEF\xBB\xBFhello"), "hello"},
		{"old mac line endings", []byte("a\rb"), "a\nb"},
		{"trailing spaces", []byte("a  \t\nb "), "a\nb"},
		{"invalid utf8 dropped", []byte("ok\xffok"), "okok"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}
