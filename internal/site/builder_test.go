package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mmonline245-max/unitstool/internal/eventstore"
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/sitemap"
	"github.com/mmonline245-max/unitstool/internal/slug"
	"github.com/mmonline245-max/unitstool/internal/testutil"
)

const fixtureTools = `[
  {"id": 1, "name": "BMI Calculator", "category": "Health", "type": "bmi"},
  {"id": 2, "name": "Age Calculator", "category": "Everyday", "type": "age"},
  {"id": 3, "name": "Loan Calculator", "category": "Finance", "type": "loan"},
  {"id": 4, "name": "Adder", "category": "Everyday"}
]`

var fixturePosts = map[string]string{
	"winter.md": "---\ntitle: Winter Tips\ndate: 2023-12-01\n---\nStay warm.\n",
	"summer.md": "---\ntitle: Summer Tips\ndate: 2024-06-01\n---\nStay cool.\n",
	"newyear.md": "---\ntitle: New Year\ndate: 2024-01-01\n---\nPlan ahead.\n",
	"broken.md":  "no header at all\n",
}

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	root string
	opts Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"content/tools.json":  fixtureTools,
		"public/styles.css":   "body{}",
		"public/img/logo.svg": "<svg/>",
	}
	for name, body := range fixturePosts {
		files["content/blog/"+name] = body
	}
	testutil.WriteTree(t, root, files)

	return &fixture{root: root, opts: Options{
		Site:          render.Site{Name: "UnitsTool", Domain: "unitstool.com", Tagline: "Smart Tools"},
		ToolsPath:     filepath.Join(root, "content/tools.json"),
		BlogDir:       filepath.Join(root, "content/blog"),
		PublicDir:     filepath.Join(root, "public"),
		OutputDir:     filepath.Join(root, "dist"),
		Concurrency:   1,
		ExcerptLength: 100,
	}}
}

func (f *fixture) write(t *testing.T, rel, body string) {
	t.Helper()
	testutil.WriteTree(t, f.root, map[string]string{rel: body})
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.opts.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) build(t *testing.T, options ...Option) (*BuildReport, error) {
	t.Helper()
	options = append([]Option{WithClock(func() time.Time { return fixedNow }), WithLogger(testutil.DiscardLogger())}, options...)
	return NewBuilder(f.opts, options...).Build(t.Context(), metrics.TriggerManual)
}

func TestBuild_WritesFullSite(t *testing.T) {
	f := newFixture(t)

	report, err := f.build(t)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.NotEmpty(t, report.BuildID)

	testutil.NewFileAssertions(t, f.opts.OutputDir).
		Exists(
			"index.html",
			"category-health.html",
			"category-everyday.html",
			"category-finance.html",
			"blog/index.html",
			"blog/winter-tips.html",
			"blog/summer-tips.html",
			"blog/new-year.html",
			"sitemap.xml",
			"robots.txt",
			"data/tools.json",
			"styles.css",
			"img/logo.svg",
		).
		FileCount("tools", 4).
		FileCount("blog", 4).
		Missing("blog/broken.html").
		Contains("tools/bmi-calculator.html", `data-tool="1"`)

	require.Equal(t, 4, report.Tools)
	require.Equal(t, 3, report.Categories)
	require.Equal(t, 3, report.Posts)
	require.Len(t, report.SkippedPosts, 1)
	require.Equal(t, "broken.md", report.SkippedPosts[0].File)
	require.Equal(t, 1+3+4+1+3, report.TotalPages())
	require.Len(t, report.Stages, 8)
	require.Equal(t, StagePrepareOutput, report.Stages[0].Stage)
	require.Equal(t, StageToolData, report.Stages[7].Stage)

	info, err := os.Stat(filepath.Join(f.opts.OutputDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, fileMode, info.Mode().Perm())
}

func TestBuild_SitemapHasOneEntryPerPage(t *testing.T) {
	f := newFixture(t)
	report, err := f.build(t)
	require.NoError(t, err)

	entries, err := sitemap.Parse([]byte(f.read(t, "sitemap.xml")))
	require.NoError(t, err)
	require.Len(t, entries, 1+4+3)
	require.Equal(t, len(entries), report.SitemapURLs)

	require.Equal(t, sitemap.Entry{Loc: "https://unitstool.com/", LastMod: "2024-07-01T12:00:00Z"}, entries[0])
	require.Equal(t, "https://unitstool.com/tools/bmi-calculator.html", entries[1].Loc)
	require.Equal(t, sitemap.Entry{Loc: "https://unitstool.com/blog/summer-tips.html", LastMod: "2024-06-01"}, entries[5])
}

func TestBuild_RobotsPointsAtSitemap(t *testing.T) {
	f := newFixture(t)
	_, err := f.build(t)
	require.NoError(t, err)
	require.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://unitstool.com/sitemap.xml", f.read(t, "robots.txt"))
}

func TestBuild_BlogIndexNewestFirst(t *testing.T) {
	f := newFixture(t)
	_, err := f.build(t)
	require.NoError(t, err)

	idx := f.read(t, "blog/index.html")
	summer := strings.Index(idx, "Summer Tips")
	newYear := strings.Index(idx, "New Year")
	winter := strings.Index(idx, "Winter Tips")
	require.True(t, summer >= 0 && newYear >= 0 && winter >= 0)
	require.Less(t, summer, newYear)
	require.Less(t, newYear, winter)
}

func TestBuild_CategoryPagesFilterTools(t *testing.T) {
	f := newFixture(t)
	_, err := f.build(t)
	require.NoError(t, err)

	page := f.read(t, "category-everyday.html")
	require.Contains(t, page, "Age Calculator")
	require.Contains(t, page, "Adder")
	require.NotContains(t, page, "Loan Calculator</h2>")
}

func TestBuild_ToolData(t *testing.T) {
	f := newFixture(t)
	_, err := f.build(t)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.read(t, ToolDataPath)), &records))
	require.Len(t, records, 4)
	require.Equal(t, "1", records[0]["id"])
	require.Equal(t, "bmi", records[0]["type"])
	require.Equal(t, "bmi-calculator", records[0]["slug"])
	require.Equal(t, "/tools/bmi-calculator.html", records[0]["url"])
}

func TestBuild_WipesStaleOutput(t *testing.T) {
	f := newFixture(t)
	stale := filepath.Join(f.opts.OutputDir, "tools", "removed.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := f.build(t)
	require.NoError(t, err)
	require.NoFileExists(t, stale)
}

func TestBuild_ToolSlugCollisionFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "content/tools.json", `[
	  {"id": 1, "name": "BMI Calculator", "category": "Health"},
	  {"id": 2, "name": "bmi calculator!", "category": "Health"}
	]`)

	report, err := f.build(t)
	require.Error(t, err)
	require.ErrorIs(t, err, slug.ErrCollision)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Equal(t, StageLoadTools, report.FailedStage)
	require.NoFileExists(t, filepath.Join(f.opts.OutputDir, "index.html"))
}

func TestBuild_PostSlugCollisionFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "content/blog/dupe.md", "---\ntitle: Summer tips!\n---\nAgain.\n")

	report, err := f.build(t)
	require.ErrorIs(t, err, slug.ErrCollision)
	require.Equal(t, StageRenderBlog, report.FailedStage)
	require.NoFileExists(t, filepath.Join(f.opts.OutputDir, "sitemap.xml"))
}

func TestBuild_PostCannotReplaceBlogIndex(t *testing.T) {
	for _, title := range []string{"Index", "INDEX!"} {
		t.Run(title, func(t *testing.T) {
			f := newFixture(t)
			f.write(t, "content/blog/index.md", "---\ntitle: "+title+"\ndate: 2024-02-01\n---\nHello.\n")

			report, err := f.build(t)
			require.ErrorIs(t, err, slug.ErrCollision)
			require.Equal(t, StageRenderBlog, report.FailedStage)
			require.NoFileExists(t, filepath.Join(f.opts.OutputDir, "blog", "index.html"))
		})
	}
}

func TestBuild_ReportsMissingWidgetAssets(t *testing.T) {
	f := newFixture(t)

	report, err := f.build(t)
	require.NoError(t, err)
	require.Equal(t, []string{"wasm_exec.js", "widget.wasm"}, report.MissingAssets)

	f.write(t, "public/wasm_exec.js", "// shim")
	f.write(t, "public/widget.wasm", "\x00asm")
	report, err = f.build(t)
	require.NoError(t, err)
	require.Empty(t, report.MissingAssets)
	testutil.NewFileAssertions(t, f.opts.OutputDir).Exists("widget.wasm", "wasm_exec.js")
}

func TestBuild_MissingToolListFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.opts.ToolsPath))

	_, err := f.build(t)
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryContent))

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorFatal, se.Kind)
	require.Equal(t, StageLoadTools, se.Stage)
}

func TestBuild_UnparsableDateFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "content/blog/bad.md", "---\ntitle: Bad\ndate: 31/12/2024\n---\n")

	_, err := f.build(t)
	require.True(t, derrors.HasCategory(err, derrors.CategoryContent))
}

func TestBuild_TemplateDirectory(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.root, "templates")
	f.write(t, "templates/index.html", "{{.Site.Name}} index")
	f.write(t, "templates/tool.html", "{{.Tool.Name}}")
	f.write(t, "templates/blog.html", "{{len .Posts}} posts")
	f.write(t, "templates/post.html", "{{.Post.HTML}}")
	f.opts.TemplatesDir = dir

	_, err := f.build(t)
	require.NoError(t, err)
	require.Equal(t, "UnitsTool index", f.read(t, "index.html"))
	require.Equal(t, "Adder", f.read(t, "tools/adder.html"))
	require.Equal(t, "3 posts", f.read(t, "blog/index.html"))
	require.Equal(t, "<p>Stay cool.</p>\n", f.read(t, "blog/summer-tips.html"))
}

func TestBuild_MissingTemplateFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "templates/index.html", "ok")
	f.opts.TemplatesDir = filepath.Join(f.root, "templates")

	report, err := f.build(t)
	require.True(t, derrors.HasCategory(err, derrors.CategoryTemplate))
	require.Equal(t, StageRenderTools, report.FailedStage)
}

func TestBuild_ConcurrentRenderMatchesSequential(t *testing.T) {
	seq := newFixture(t)
	_, err := seq.build(t)
	require.NoError(t, err)

	par := newFixture(t)
	par.opts.Concurrency = 8
	_, err = par.build(t)
	require.NoError(t, err)

	for _, rel := range []string{"index.html", "category-everyday.html", "tools/loan-calculator.html", "blog/index.html", "sitemap.xml"} {
		require.Equal(t, seq.read(t, rel), par.read(t, rel), rel)
	}
}

func TestBuild_CanceledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report, err := NewBuilder(f.opts).Build(ctx, metrics.TriggerManual)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, OutcomeCanceled, report.Outcome)
	require.Equal(t, StagePrepareOutput, report.FailedStage)
}

func TestBuild_MissingPublicAndBlogDirs(t *testing.T) {
	f := newFixture(t)
	f.opts.PublicDir = filepath.Join(f.root, "nope")
	f.opts.BlogDir = filepath.Join(f.root, "no-blog")

	report, err := f.build(t)
	require.NoError(t, err)
	require.Zero(t, report.Posts)
	require.FileExists(t, filepath.Join(f.opts.OutputDir, "blog", "index.html"))

	entries, err := sitemap.Parse([]byte(f.read(t, "sitemap.xml")))
	require.NoError(t, err)
	require.Len(t, entries, 1+4)
}

func TestBuild_LastSuccessfulSnapshot(t *testing.T) {
	f := newFixture(t)
	b := NewBuilder(f.opts)

	_, ok := b.LastSuccessful()
	require.False(t, ok)

	report, err := b.Build(t.Context(), metrics.TriggerManual)
	require.NoError(t, err)

	snap, ok := b.LastSuccessful()
	require.True(t, ok)
	require.Equal(t, report.BuildID, snap.Report.BuildID)
	require.Len(t, snap.Tools, 4)
	require.Len(t, snap.Posts, 3)

	require.NoError(t, os.Remove(f.opts.ToolsPath))
	_, err = b.Build(t.Context(), metrics.TriggerManual)
	require.Error(t, err)

	snap, ok = b.LastSuccessful()
	require.True(t, ok)
	require.Equal(t, report.BuildID, snap.Report.BuildID)
}

func TestBuild_RecordsMetricsAndHistory(t *testing.T) {
	f := newFixture(t)

	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	buildLog := eventstore.NewBuildLog(store, 10)
	defer func() { _ = buildLog.Close() }()

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	report, err := f.build(t, WithRecorder(recorder), WithObserver(NewHistoryObserver(buildLog, nil)))
	require.NoError(t, err)

	summary, ok := buildLog.Build(report.BuildID)
	require.True(t, ok)
	require.Equal(t, eventstore.StatusCompleted, summary.Status)
	require.Equal(t, "manual", summary.Trigger)
	require.Len(t, summary.Stages, 8)
	require.Equal(t, report.TotalPages(), summary.Counts.Pages)
	require.Equal(t, 1, summary.Counts.PostsSkipped)

	require.NoError(t, os.Remove(f.opts.ToolsPath))
	failed, err := f.build(t, WithRecorder(recorder), WithObserver(NewHistoryObserver(buildLog, nil)))
	require.Error(t, err)

	summary, ok = buildLog.Build(failed.BuildID)
	require.True(t, ok)
	require.Equal(t, eventstore.StatusFailed, summary.Status)
	require.Equal(t, string(StageLoadTools), summary.ErrorStage)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["unitstool_build_outcomes_total"])
	require.True(t, names["unitstool_pages_written_total"])
	require.True(t, names["unitstool_posts_skipped_total"])
}
