// Package frontmatter splits markdown documents into a flat `key: value`
// metadata header and a body, and writes such headers back.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"
)

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

var (
	// ErrMissingOpeningDelimiter indicates the document does not start with a `---` line.
	ErrMissingOpeningDelimiter = errors.New("frontmatter start delimiter is missing")

	// ErrMissingClosingDelimiter indicates the document started with a
	// frontmatter delimiter but did not contain a closing delimiter line.
	ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")
)

// Document is a parsed markdown file: its metadata and unconsumed body.
type Document struct {
	Meta  map[string]string
	Body  []byte
	Style Style
}

// Split separates the `---` delimited header from the body.
//
// The closing delimiter must be a full line followed by a newline. Both LF and
// CRLF documents are accepted; the detected newline is reported in Style.
func Split(content []byte) (header []byte, body []byte, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, style, ErrMissingOpeningDelimiter
	}

	headerStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[headerStart:], closeLine) {
		bodyStart := headerStart + len(closeLine)
		return []byte{}, content[bodyStart:], style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[headerStart:], closeSeq)
	if idx < 0 {
		return nil, nil, style, ErrMissingClosingDelimiter
	}

	headerEnd := headerStart + idx + len(nl)
	bodyStart := headerStart + idx + len(closeSeq)
	return content[headerStart:headerEnd], content[bodyStart:], style, nil
}

// Parse splits content and decodes the header into a flat key/value map.
//
// Each header line is split on its first colon. Keys and values are trimmed,
// and values wrapped in double quotes lose the quotes. Lines without a colon
// or with an empty key are ignored. Values are never coerced: dates and
// numbers stay strings.
func Parse(content []byte) (*Document, error) {
	header, body, style, err := Split(content)
	if err != nil {
		return nil, err
	}
	return &Document{Meta: ParseHeader(header), Body: body, Style: style}, nil
}

// ParseHeader decodes a header block (without delimiters).
func ParseHeader(header []byte) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(string(header), "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		meta[key] = unquote(strings.TrimSpace(line[idx+1:]))
	}
	return meta
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
