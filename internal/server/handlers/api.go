package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmonline245-max/unitstool/internal/calculator"
	"github.com/mmonline245-max/unitstool/internal/eventstore"
	"github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/server/responses"
)

const (
	defaultHistoryLimit = 20
	maxRequestBody      = 64 << 10
)

// HistorySource exposes recorded builds.
type HistorySource interface {
	History(limit int) []eventstore.BuildSummary
}

// APIHandlers serves the JSON API.
type APIHandlers struct {
	site         SiteSource
	history      HistorySource
	now          func() time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates a new API handlers instance. history may be nil when
// build history is disabled.
func NewAPIHandlers(site SiteSource, history HistorySource) *APIHandlers {
	return &APIHandlers{
		site:         site,
		history:      history,
		now:          time.Now,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

func (h *APIHandlers) tools() ([]calculator.Tool, error) {
	snap, ok := h.site.LastSuccessful()
	if !ok {
		return nil, errors.RuntimeError("no successful build yet").Build()
	}
	return toCalculatorTools(snap.Tools), nil
}

// HandleTools lists tools, filtered by the q query parameter.
func (h *APIHandlers) HandleTools(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}
	tools, err := h.tools()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	q := r.URL.Query().Get("q")
	matched := calculator.Filter(tools, q)
	if err := writeJSON(w, http.StatusOK, &responses.ToolsResponse{Query: q, Count: len(matched), Tools: matched}); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write tools response").Build())
	}
}

// HandleCalculate evaluates one calculator form.
func (h *APIHandlers) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodPost) {
		return
	}

	var req responses.CalculateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryValidation, "invalid request body").Build())
		return
	}

	resp := responses.CalculateResponse{Kind: calculator.KindOf(req.Type)}
	if req.ToolID != "" {
		tools, err := h.tools()
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		tool, err := calculator.SelectTool(tools, req.ToolID)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r,
				errors.NotFoundError("tool not found").WithContext("tool_id", req.ToolID).Build())
			return
		}
		resp.Tool = &tool
		resp.Kind = tool.Kind()
	}

	result, err := calculator.Compute(resp.Kind, req.Inputs, h.now())
	if err != nil {
		var ie *calculator.InputError
		if stderrors.As(err, &ie) {
			err = errors.ValidationError(ie.Error()).
				WithContext("field", ie.Field).
				WithCause(err).
				Build()
		}
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	resp.Result = result

	if err := writeJSON(w, http.StatusOK, &resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write calculate response").Build())
	}
}

// HandleBuilds lists recorded builds, newest first. The n query parameter
// caps the count.
func (h *APIHandlers) HandleBuilds(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}
	if h.history == nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("build history is disabled").Build())
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorAdapter.WriteErrorResponse(w, r,
				errors.ValidationError("n must be a positive integer").WithContext("n", raw).Build())
			return
		}
		limit = n
	}

	builds := h.history.History(limit)
	if builds == nil {
		builds = []eventstore.BuildSummary{}
	}
	if err := writeJSON(w, http.StatusOK, &responses.BuildsResponse{Count: len(builds), Builds: builds}); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write builds response").Build())
	}
}
