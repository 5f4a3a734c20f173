// Package responses defines API response types used by the preview server handlers.
package responses

import (
	"time"

	"github.com/mmonline245-max/unitstool/internal/calculator"
	"github.com/mmonline245-max/unitstool/internal/eventstore"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	LastBuild *BuildStatus `json:"last_build,omitempty"`
}

// BuildStatus summarises the build currently being served.
type BuildStatus struct {
	BuildID     string    `json:"build_id"`
	Trigger     string    `json:"trigger"`
	CompletedAt time.Time `json:"completed_at"`
	Tools       int       `json:"tools"`
	Posts       int       `json:"posts"`
	Pages       int       `json:"pages"`
}

// ToolsResponse lists tools matching a search query.
type ToolsResponse struct {
	Query string            `json:"query,omitempty"`
	Count int               `json:"count"`
	Tools []calculator.Tool `json:"tools"`
}

// CalculateRequest asks for one calculator evaluation. ToolID wins over Type
// when both are set.
type CalculateRequest struct {
	ToolID string            `json:"tool_id,omitempty"`
	Type   string            `json:"type,omitempty"`
	Inputs calculator.Inputs `json:"inputs"`
}

// CalculateResponse carries the formatted result line.
type CalculateResponse struct {
	Tool   *calculator.Tool `json:"tool,omitempty"`
	Kind   calculator.Kind  `json:"kind"`
	Result string           `json:"result"`
}

// BuildsResponse lists recorded builds, newest first.
type BuildsResponse struct {
	Count  int                       `json:"count"`
	Builds []eventstore.BuildSummary `json:"builds"`
}
