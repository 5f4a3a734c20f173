package site

import (
	"context"

	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/render"
)

// stageRenderBlog loads the posts, claims their slugs and writes the blog
// index plus one page per post.
func stageRenderBlog(ctx context.Context, bs *BuildState) error {
	posts, skipped, err := bs.store.LoadPosts(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if _, err := bs.postSlugs.Claim(p.Title); err != nil {
			return err
		}
	}

	bs.Posts = posts
	bs.Report.Posts = len(posts)
	bs.Report.SkippedPosts = skipped
	bs.recorder.AddPostsSkipped(len(skipped))
	bs.logger.InfoContext(ctx, "Loaded blog posts",
		logfields.Count(len(posts)),
		"skipped", len(skipped))

	if err := bs.renderPages(ctx, PageBlog, []pageJob{{
		rel:      "blog/index.html",
		template: render.TemplateBlog,
		data:     bs.page(),
	}}); err != nil {
		return err
	}

	jobs := make([]pageJob, 0, len(posts))
	for i := range bs.Posts {
		data := bs.page()
		data.Post = &bs.Posts[i]
		jobs = append(jobs, pageJob{
			rel:      "blog/" + bs.Posts[i].Slug + ".html",
			template: render.TemplatePost,
			data:     data,
		})
	}
	return bs.renderPages(ctx, PagePost, jobs)
}
