package sitemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	entries := []Entry{
		{Loc: "https://unitstool.com/", LastMod: "2024-07-01T12:00:00Z"},
		{Loc: "https://unitstool.com/blog/a&b.html", LastMod: "2024-06-01"},
	}

	out, err := Marshal(entries)
	require.NoError(t, err)
	doc := string(out)

	require.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	require.Contains(t, doc, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, doc, "<loc>https://unitstool.com/</loc>")
	require.Contains(t, doc, "<lastmod>2024-06-01</lastmod>")
	require.Contains(t, doc, "a&amp;b.html")
	require.Equal(t, 2, strings.Count(doc, "<url>"))

	parsed, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, entries, parsed)
}

func TestMarshal_Empty(t *testing.T) {
	out, err := Marshal(nil)
	require.NoError(t, err)
	parsed, err := Parse(out)
	require.NoError(t, err)
	require.Empty(t, parsed)
}

func TestRobots(t *testing.T) {
	require.Equal(t,
		"User-agent: *\nAllow: /\nSitemap: https://unitstool.com/sitemap.xml",
		Robots("https://unitstool.com/sitemap.xml"))
}
