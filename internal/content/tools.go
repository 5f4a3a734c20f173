package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// ToolID is a tool identifier. The JSON source may use a number or a string;
// both decode to the same textual form.
type ToolID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ToolID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ToolID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("tool id must be a string or a number")
	}
	*id = ToolID(n.String())
	return nil
}

// Tool is one calculator or converter. Fields keeps every attribute of the
// source object that has no dedicated field.
type Tool struct {
	ID          ToolID
	Name        string
	Category    string
	Type        string
	Description string
	Fields      map[string]any
}

var knownToolKeys = map[string]bool{
	"id": true, "name": true, "category": true, "type": true, "description": true,
}

// UnmarshalJSON decodes the known attributes and collects the rest in Fields.
func (t *Tool) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Tool
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*string{
		"name": &out.Name, "category": &out.Category, "type": &out.Type, "description": &out.Description,
	} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return errors.New("tool " + key + " must be a string")
		}
	}
	for key, v := range raw {
		if knownToolKeys[key] {
			continue
		}
		if out.Fields == nil {
			out.Fields = make(map[string]any)
		}
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out.Fields[key] = val
	}
	*t = out
	return nil
}

// Record flattens the tool into one map: extra fields first, then the known
// attributes, which always win.
func (t Tool) Record() map[string]any {
	m := make(map[string]any, len(t.Fields)+5)
	for k, v := range t.Fields {
		m[k] = v
	}
	m["id"] = string(t.ID)
	m["name"] = t.Name
	m["category"] = t.Category
	if t.Type != "" {
		m["type"] = t.Type
	}
	if t.Description != "" {
		m["description"] = t.Description
	}
	return m
}

// MarshalJSON writes the tool back as one flat object.
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// Field returns a free-form attribute, or nil.
func (t Tool) Field(name string) any {
	return t.Fields[name]
}

// Slug is the URL-safe form of the tool name.
func (t Tool) Slug() string {
	return slug.Make(t.Name)
}

// Category is a distinct tool category with its slug.
type Category struct {
	Name string
	Slug string
}

// LoadTools reads and validates the tool catalogue. A missing or malformed
// file, a tool without name or category, and a repeated id all fail.
func (s *Store) LoadTools(ctx context.Context) ([]Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.toolsPath)
	if err != nil {
		msg := "failed to read tool list"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "tool list not found"
		}
		return nil, derrors.WrapError(err, derrors.CategoryContent, msg).
			WithContext("path", s.toolsPath).
			Fatal().
			Build()
	}

	var tools []Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryContent, "malformed tool list").
			WithContext("path", s.toolsPath).
			Fatal().
			Build()
	}

	if err := ValidateTools(tools); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Loaded tools", logfields.Path(s.toolsPath), logfields.Count(len(tools)))
	return tools, nil
}

// ValidateTools checks that every tool has a name and category and that ids
// are unique. Tools with an empty id are not checked for uniqueness.
func ValidateTools(tools []Tool) error {
	seen := make(map[ToolID]int, len(tools))
	for i, t := range tools {
		if strings.TrimSpace(t.Name) == "" {
			return derrors.ValidationError("tool has no name").
				WithContext("index", i).
				WithContext("id", string(t.ID)).
				Build()
		}
		if strings.TrimSpace(t.Category) == "" {
			return derrors.ValidationError("tool has no category").
				WithContext("index", i).
				WithContext("tool", t.Name).
				Build()
		}
		if t.ID == "" {
			continue
		}
		if prev, dup := seen[t.ID]; dup {
			return derrors.ValidationError("duplicate tool id").
				WithContext("id", string(t.ID)).
				WithContext("index", i).
				WithContext("first_index", prev).
				Build()
		}
		seen[t.ID] = i
	}
	return nil
}

// Categories returns the distinct categories in first-seen order.
func Categories(tools []Tool) []Category {
	var out []Category
	seen := make(map[string]bool)
	for _, t := range tools {
		if seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, Category{Name: t.Category, Slug: slug.Make(t.Category)})
	}
	return out
}

// ToolsInCategory filters tools by exact category name, keeping order.
func ToolsInCategory(tools []Tool, category string) []Tool {
	var out []Tool
	for _, t := range tools {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FindTool looks a tool up by id.
func FindTool(tools []Tool, id ToolID) (Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}
