package site

import (
	"context"
	"time"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/sitemap"
)

// SitemapEntries lists home, every tool and every post. Home and tools carry
// the build time; posts carry their declared date, or the build time when
// they have none.
func SitemapEntries(bs *BuildState) []sitemap.Entry {
	built := bs.BuildTime.Format(time.RFC3339)
	entries := make([]sitemap.Entry, 0, 1+len(bs.Tools)+len(bs.Posts))
	entries = append(entries, sitemap.Entry{Loc: render.AbsURL(bs.Site, "/"), LastMod: built})
	for _, t := range bs.Tools {
		entries = append(entries, sitemap.Entry{Loc: render.AbsURL(bs.Site, render.ToolURL(t)), LastMod: built})
	}
	for _, p := range bs.Posts {
		lastmod := p.DateRaw
		if lastmod == "" {
			lastmod = built
		}
		entries = append(entries, sitemap.Entry{Loc: render.AbsURL(bs.Site, render.PostURL(p)), LastMod: lastmod})
	}
	return entries
}

func stageSitemap(_ context.Context, bs *BuildState) error {
	entries := SitemapEntries(bs)
	data, err := sitemap.Marshal(entries)
	if err != nil {
		return derrors.BuildError("failed to encode sitemap").WithCause(err).Build()
	}
	bs.Report.SitemapURLs = len(entries)
	return bs.writeOutput("sitemap.xml", data)
}

func stageRobots(_ context.Context, bs *BuildState) error {
	return bs.writeOutput("robots.txt", []byte(sitemap.Robots(render.AbsURL(bs.Site, "/sitemap.xml"))))
}
