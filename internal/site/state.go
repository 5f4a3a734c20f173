package site

import (
	"log/slog"
	"time"

	"github.com/mmonline245-max/unitstool/internal/content"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// BuildState carries everything the stages share during one build.
type BuildState struct {
	Options   Options
	Site      render.Site
	BuildTime time.Time
	Report    *BuildReport

	Tools      []content.Tool
	Categories []content.Category
	Posts      []content.Post

	toolSlugs *slug.Registry
	postSlugs *slug.Registry

	store    *content.Store
	renderer *render.Renderer
	recorder metrics.Recorder
	observer BuildObserver
	logger   *slog.Logger
}

// page returns the base render context for this build.
func (bs *BuildState) page() render.PageData {
	return render.PageData{
		Site:       bs.Site,
		BuildTime:  bs.BuildTime,
		Tools:      bs.Tools,
		Categories: bs.Categories,
		Posts:      bs.Posts,
	}
}
