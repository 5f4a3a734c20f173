package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_GFMAndHeadingIDs(t *testing.T) {
	c := NewConverter(Options{})

	out, err := c.Convert([]byte("# Healthy Weight\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~ value\n"))
	require.NoError(t, err)
	require.Contains(t, out, `<h1 id="healthy-weight">Healthy Weight</h1>`)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<del>old</del>")
}

func TestConvert_RawHTMLOmittedUnlessUnsafe(t *testing.T) {
	src := []byte("<div class=\"note\">hi</div>\n")

	safe, err := NewConverter(Options{}).Convert(src)
	require.NoError(t, err)
	require.NotContains(t, safe, `<div class="note">`)

	unsafe, err := NewConverter(Options{Unsafe: true}).Convert(src)
	require.NoError(t, err)
	require.Contains(t, unsafe, `<div class="note">hi</div>`)
}

func TestExcerpt_FirstParagraph(t *testing.T) {
	rendered := "<h1>Title</h1>\n<p>  First   <em>real</em>\nparagraph. </p>\n<p>Second.</p>"
	require.Equal(t, "First real paragraph.", Excerpt(rendered, 0))
}

func TestExcerpt_SkipsEmptyParagraphs(t *testing.T) {
	rendered := "<p>   </p><p>Body text</p>"
	require.Equal(t, "Body text", Excerpt(rendered, 0))
}

func TestExcerpt_NoParagraph(t *testing.T) {
	require.Empty(t, Excerpt("<h2>Only a heading</h2>", 50))
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	long := "<p>" + strings.Repeat("word ", 30) + "</p>"
	got := Excerpt(long, 22)
	require.Equal(t, "word word word word...", got)
}

func TestExcerpt_FromConvertedMarkdown(t *testing.T) {
	c := NewConverter(Options{})
	out, err := c.Convert([]byte("## Intro\n\nBMI is a *rough* guide.\n\nMore later.\n"))
	require.NoError(t, err)
	require.Equal(t, "BMI is a rough guide.", Excerpt(out, DefaultExcerptLength))
}
