package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()

	assert.ElementsMatch(t, []string{"text/html", "application/xhtml+xml"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_NilPage(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_StripsMarkup(t *testing.T) {
	page := &domain.RawPage{
		URI:      "https://example.com/docs/intro.html",
		MIMEType: "text/html",
		Content: []byte(`<!DOCTYPE html>
<html>
<head><title>Intro &amp; Setup</title><style>body{color:red}</style></head>
<body>
  <!-- nav -->
  <script>alert("x")</script>
  <h1>Welcome</h1>
  <p>First   paragraph with <b>bold</b> text.</p>
  <ul><li>One</li><li>Two</li></ul>
  <p>Caf&eacute;<br/>Line two</p>
  <svg><text>ignored</text></svg>
</body>
</html>`),
	}

	res, err := New().Normalise(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, "Intro & Setup", res.Title)
	assert.Equal(t, "text/html", res.ContentType)
	assert.Equal(t, "Welcome\nFirst paragraph with bold text.\nOne\nTwo\nCafé\nLine two", res.Text)
	assert.NotContains(t, res.Text, "alert")
	assert.NotContains(t, res.Text, "color")
	assert.NotContains(t, res.Text, "ignored")
}

func TestNormalise_TitleFallsBackToURI(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no title tag", "<p>hi</p>", "getting started"},
		{"empty title tag", "<title>  </title><p>hi</p>", "getting started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &domain.RawPage{
				URI:     "https://example.com/guide/getting_started.html",
				Content: []byte(tt.content),
			}

			res, err := New().Normalise(context.Background(), page)

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Title)
		})
	}
}

func TestNormalise_DescriptionAndLanguage(t *testing.T) {
	page := &domain.RawPage{
		URI: "https://example.com/",
		Content: []byte(`<html lang="pt-BR"><head>
<meta charset="utf-8">
<meta name="description" content="Guia de instala&ccedil;&atilde;o">
</head><body><main>Conte&uacute;do</main></body></html>`),
	}

	res, err := New().Normalise(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, "Guia de instalação", res.Description)
	assert.Equal(t, "pt-BR", res.Language)
	assert.Equal(t, "Conteúdo", res.Text)
}

func TestNormalise_NoDeclaredAttributes(t *testing.T) {
	res, err := New().Normalise(context.Background(), &domain.RawPage{Content: []byte("<p>plain</p>")})

	require.NoError(t, err)
	assert.Empty(t, res.Description)
	assert.Empty(t, res.Language)
}

func TestVisibleText_DropsSiteChrome(t *testing.T) {
	doc := `<nav class="top"><a href="/">Home</a></nav>
<article><h2>Body</h2><p>Kept</p></article>
<footer>&copy; 2026</footer><template><p>hidden</p></template>`

	assert.Equal(t, "Body\nKept", visibleText(doc))
}

func TestVisibleText_Empty(t *testing.T) {
	assert.Empty(t, visibleText(""))
	assert.Empty(t, visibleText("<div>  </div>"))
}
