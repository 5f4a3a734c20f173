package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/server/responses"
	"github.com/mmonline245-max/unitstool/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	site         SiteSource
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(site SiteSource, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		site:         site,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports liveness plus the build being served. The status
// is "starting" until the first build succeeds.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}

	health := &responses.HealthResponse{
		Status:    "starting",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if snap, ok := h.site.LastSuccessful(); ok {
		health.Status = "healthy"
		health.LastBuild = &responses.BuildStatus{
			BuildID:     snap.Report.BuildID,
			Trigger:     string(snap.Report.Trigger),
			CompletedAt: snap.Report.End.UTC(),
			Tools:       snap.Report.Tools,
			Posts:       snap.Report.Posts,
			Pages:       snap.Report.TotalPages(),
		}
	}

	if err := writeJSON(w, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}
