package calculator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound is returned by SelectTool when no tool carries the id.
var ErrToolNotFound = errors.New("tool not found")

// ToolID accepts both JSON strings and numbers.
type ToolID string

// UnmarshalJSON accepts "7" and 7 alike, keeping the decimal text.
func (id *ToolID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ToolID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tool id must be a string or number: %w", err)
	}
	*id = ToolID(n.String())
	return nil
}

// Tool is the subset of a tool record the widget needs.
type Tool struct {
	ID       ToolID `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type,omitempty"`
	Slug     string `json:"slug,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Kind picks the form layout and formula.
func (t Tool) Kind() Kind { return KindOf(t.Type) }

// DecodeTools parses the published tool list.
func DecodeTools(data []byte) ([]Tool, error) {
	var tools []Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("decode tool list: %w", err)
	}
	return tools, nil
}

// SelectTool returns the tool whose id equals id. There is no fallback.
func SelectTool(tools []Tool, id string) (Tool, error) {
	id = strings.TrimSpace(id)
	for _, t := range tools {
		if string(t.ID) == id {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("%w: %q", ErrToolNotFound, id)
}

// Matches reports whether text contains query, ignoring case.
func Matches(text, query string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// Filter keeps tools whose name, category or type matches query. An empty
// query keeps everything.
func Filter(tools []Tool, query string) []Tool {
	query = strings.TrimSpace(query)
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if query == "" || Matches(t.Name+" "+t.Category+" "+t.Type, query) {
			out = append(out, t)
		}
	}
	return out
}
