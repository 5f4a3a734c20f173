package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Serialize writes meta as a header block (without delimiters) that Parse
// reads back to the same map.
//
// Keys are sorted to keep output stable. Values with surrounding whitespace,
// or that already look double-quoted, are wrapped in quotes so they survive
// trimming and unquoting.
func Serialize(meta map[string]string, style Style) ([]byte, error) {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		if k == "" || k != strings.TrimSpace(k) || strings.ContainsAny(k, ":\r\n") {
			return nil, fmt.Errorf("frontmatter key %q cannot be serialized", k)
		}
		v := meta[k]
		if strings.ContainsAny(v, "\r\n") {
			return nil, fmt.Errorf("frontmatter value for %q spans multiple lines", k)
		}
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(quoteIfNeeded(v))
		buf.WriteString(nl)
	}
	return buf.Bytes(), nil
}

// Format assembles a full document from meta and body.
func Format(meta map[string]string, body []byte, style Style) ([]byte, error) {
	header, err := Serialize(meta, style)
	if err != nil {
		return nil, err
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, len(header)+len(body)+2*(3+len(nl)))
	out = append(out, "---"+nl...)
	out = append(out, header...)
	out = append(out, "---"+nl...)
	out = append(out, body...)
	return out, nil
}

func quoteIfNeeded(v string) string {
	if v != strings.TrimSpace(v) || unquote(v) != v {
		return `"` + v + `"`
	}
	return v
}
