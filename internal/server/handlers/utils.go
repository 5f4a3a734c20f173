package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmonline245-max/unitstool/internal/calculator"
	"github.com/mmonline245-max/unitstool/internal/content"
	"github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/site"
)

// SiteSource exposes the most recent successful build.
type SiteSource interface {
	LastSuccessful() (site.Snapshot, bool)
}

// writeJSON serializes the provided value to JSON and writes it with the given
// status code. Encoding goes into a buffer first so a failed encode never
// sends a partial body.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// requireMethod writes a validation error and returns false when r does not use method.
func requireMethod(w http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter, method string) bool {
	if r.Method == method {
		return true
	}
	err := errors.ValidationError("invalid HTTP method").
		WithContext("method", r.Method).
		WithContext("allowed_method", method).
		Build()
	w.Header().Set("Allow", method)
	adapter.WriteErrorResponse(w, r, err)
	return false
}

func toCalculatorTools(tools []content.Tool) []calculator.Tool {
	out := make([]calculator.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, calculator.Tool{
			ID:       calculator.ToolID(t.ID),
			Name:     t.Name,
			Category: t.Category,
			Type:     t.Type,
			Slug:     t.Slug(),
			URL:      render.ToolURL(t),
		})
	}
	return out
}
