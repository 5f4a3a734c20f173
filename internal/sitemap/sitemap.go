// Package sitemap writes the sitemaps.org URL set and the robots.txt that
// points crawlers at it.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"io"
)

// Namespace is the sitemap protocol XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Entry is one page in the sitemap. Loc is absolute, LastMod is written as
// given.
type Entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []Entry  `xml:"url"`
}

// Encode writes entries as an indented sitemap document.
func Encode(w io.Writer, entries []Entry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{Xmlns: Namespace, URLs: entries}); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the encoded sitemap.
func Marshal(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse reads a sitemap document back into entries.
func Parse(data []byte) ([]Entry, error) {
	var set urlset
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	return set.URLs, nil
}

// Robots returns a robots.txt allowing every agent everywhere and naming
// the sitemap.
func Robots(sitemapURL string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + sitemapURL
}
