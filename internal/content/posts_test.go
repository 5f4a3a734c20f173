package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

func blogStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return NewStore(Options{BlogDir: dir, ExcerptLength: 80})
}

func TestLoadPosts_OrderedNewestFirst(t *testing.T) {
	s := blogStore(t, map[string]string{
		"a.md": "---\ntitle: Winter\ndate: 2023-12-01\n---\nCold.\n",
		"b.md": "---\ntitle: Summer\ndate: 2024-06-01\n---\nHot.\n",
		"c.md": "---\ntitle: New Year\ndate: 2024-01-01\n---\nFresh.\n",
	})

	posts, skipped, err := s.LoadPosts(t.Context())
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, posts, 3)

	var dates []string
	for _, p := range posts {
		dates = append(dates, p.DateRaw)
	}
	require.Equal(t, []string{"2024-06-01", "2024-01-01", "2023-12-01"}, dates)
}

func TestLoadPosts_SkipsMalformedAndUntitled(t *testing.T) {
	s := blogStore(t, map[string]string{
		"good.md":     "---\ntitle: Good\n---\nBody\n",
		"nohead.md":   "Just text, no header.\n",
		"unclosed.md": "---\ntitle: Oops\nbody without close\n",
		"untitled.md": "---\ndate: 2024-01-01\n---\nBody\n",
		"notes.txt":   "---\ntitle: Ignored\n---\n",
	})

	posts, skipped, err := s.LoadPosts(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Good", posts[0].Title)

	var files []string
	for _, sk := range skipped {
		files = append(files, sk.File)
	}
	require.Equal(t, []string{"nohead.md", "unclosed.md", "untitled.md"}, files)
}

func TestLoadPosts_ParsesMetadataAndBody(t *testing.T) {
	s := blogStore(t, map[string]string{
		"bmi.md": "---\ntitle: \"What is BMI?\"\ndate: 2024-03-05T10:00:00Z\nauthor: Ana\n---\n## Basics\n\nBMI relates *weight* to height.\n",
	})

	posts, _, err := s.LoadPosts(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	require.Equal(t, "What is BMI?", p.Title)
	require.Equal(t, "what-is-bmi", p.Slug)
	require.Equal(t, "bmi.md", p.File)
	require.Equal(t, "Ana", p.Meta["author"])
	require.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), p.Date.UTC())
	require.Contains(t, string(p.HTML), `<h2 id="basics">Basics</h2>`)
	require.Equal(t, "BMI relates weight to height.", p.Summary)
}

func TestLoadPosts_DescriptionWinsOverExcerpt(t *testing.T) {
	s := blogStore(t, map[string]string{
		"x.md": "---\ntitle: X\ndescription: Short blurb\n---\nLong body paragraph.\n",
	})
	posts, _, err := s.LoadPosts(t.Context())
	require.NoError(t, err)
	require.Equal(t, "Short blurb", posts[0].Summary)
}

func TestLoadPosts_UnparsableDateFails(t *testing.T) {
	s := blogStore(t, map[string]string{
		"bad.md": "---\ntitle: Bad\ndate: next tuesday\n---\n",
	})
	_, _, err := s.LoadPosts(t.Context())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryContent))

	c, ok := derrors.AsClassified(err)
	require.True(t, ok)
	file, _ := c.Context().GetString("file")
	require.Equal(t, "bad.md", file)
}

func TestLoadPosts_MissingDirectory(t *testing.T) {
	s := NewStore(Options{BlogDir: filepath.Join(t.TempDir(), "blog")})
	posts, skipped, err := s.LoadPosts(t.Context())
	require.NoError(t, err)
	require.Empty(t, posts)
	require.Empty(t, skipped)
}

func TestSortPosts_UndatedLastAndTiesByFile(t *testing.T) {
	d := func(s string) time.Time {
		tm, err := ParseDate(s)
		require.NoError(t, err)
		return tm
	}
	posts := []Post{
		{File: "z.md"},
		{File: "b.md", Date: d("2024-01-01")},
		{File: "a.md"},
		{File: "a2.md", Date: d("2024-01-01")},
		{File: "c.md", Date: d("2024-02-01 08:00:00")},
	}
	SortPosts(posts)

	var order []string
	for _, p := range posts {
		order = append(order, p.File)
	}
	require.Equal(t, []string{"c.md", "a2.md", "b.md", "a.md", "z.md"}, order)
}

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{
		"2024-06-01T12:30:00+02:00",
		"2024-06-01T12:30:00",
		"2024-06-01 12:30:00",
		"2024-06-01",
		"  2024-06-01  ",
	} {
		_, err := ParseDate(raw)
		require.NoError(t, err, raw)
	}
	_, err := ParseDate("06/01/2024")
	require.Error(t, err)
}
