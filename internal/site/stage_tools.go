package site

import (
	"context"
	"encoding/json"

	"github.com/mmonline245-max/unitstool/internal/content"
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// ToolDataPath is where the browser widget fetches the tool list from.
const ToolDataPath = "data/tools.json"

// stageLoadTools loads the catalogue and claims every tool and category slug.
func stageLoadTools(ctx context.Context, bs *BuildState) error {
	tools, err := bs.store.LoadTools(ctx)
	if err != nil {
		return err
	}
	for _, t := range tools {
		if _, err := bs.toolSlugs.Claim(t.Name); err != nil {
			return err
		}
	}

	categories := content.Categories(tools)
	catSlugs := slug.NewRegistry("categories")
	for _, c := range categories {
		if _, err := catSlugs.Claim(c.Name); err != nil {
			return err
		}
	}

	bs.Tools = tools
	bs.Categories = categories
	bs.Report.Tools = len(tools)
	bs.Report.Categories = len(categories)
	bs.logger.InfoContext(ctx, "Loaded tools",
		logfields.Count(len(tools)),
		"categories", len(categories))
	return nil
}

type pageJob struct {
	rel      string
	template string
	data     render.PageData
}

// renderPages renders and writes jobs with the configured fan-out and
// counts them under kind once all have been written.
func (bs *BuildState) renderPages(ctx context.Context, kind PageKind, jobs []pageJob) error {
	err := forEach(ctx, bs.Options.Concurrency, jobs, func(_ context.Context, job pageJob) error {
		html, err := bs.renderer.Render(job.template, job.data)
		if err != nil {
			return err
		}
		if err := bs.writeOutput(job.rel, []byte(html)); err != nil {
			return err
		}
		bs.logger.DebugContext(ctx, "Wrote page", logfields.Path(job.rel), logfields.Template(job.template))
		return nil
	})
	if err != nil {
		return err
	}
	bs.Report.Pages[kind] += len(jobs)
	bs.recorder.AddPagesWritten(string(kind), len(jobs))
	return nil
}

// stageRenderIndex writes index.html and one listing per category.
func stageRenderIndex(ctx context.Context, bs *BuildState) error {
	if err := bs.renderPages(ctx, PageIndex, []pageJob{{
		rel:      "index.html",
		template: render.TemplateIndex,
		data:     bs.page(),
	}}); err != nil {
		return err
	}

	jobs := make([]pageJob, 0, len(bs.Categories))
	for _, c := range bs.Categories {
		data := bs.page()
		data.Tools = content.ToolsInCategory(bs.Tools, c.Name)
		data.CurrentCategory = &c
		jobs = append(jobs, pageJob{
			rel:      "category-" + c.Slug + ".html",
			template: render.TemplateIndex,
			data:     data,
		})
	}
	return bs.renderPages(ctx, PageCategory, jobs)
}

// stageRenderTools writes tools/<slug>.html per tool.
func stageRenderTools(ctx context.Context, bs *BuildState) error {
	jobs := make([]pageJob, 0, len(bs.Tools))
	for i := range bs.Tools {
		data := bs.page()
		data.Tool = &bs.Tools[i]
		jobs = append(jobs, pageJob{
			rel:      "tools/" + bs.Tools[i].Slug() + ".html",
			template: render.TemplateTool,
			data:     data,
		})
	}
	return bs.renderPages(ctx, PageTool, jobs)
}

// stageToolData writes the tool list consumed by the browser widget. Each
// record carries the tool's slug and page URL next to its own fields.
func stageToolData(_ context.Context, bs *BuildState) error {
	records := make([]map[string]any, 0, len(bs.Tools))
	for _, t := range bs.Tools {
		rec := t.Record()
		rec["slug"] = t.Slug()
		rec["url"] = render.ToolURL(t)
		records = append(records, rec)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return derrors.BuildError("failed to encode tool data").WithCause(err).Build()
	}
	return bs.writeOutput(ToolDataPath, append(data, '\n'))
}
