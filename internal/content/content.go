// Package content loads blog articles from markdown files and answers the
// listing queries of the blog: lookup by id, newest first, by tag, related.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-md2blog/internal/dateutil"
	"github.com/alnah/go-md2blog/internal/pipeline"
	"github.com/alnah/go-md2blog/internal/yamlutil"
)

// Sentinel errors for content loading.
var (
	ErrDuplicateID        = errors.New("duplicate article id")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrEmptyID            = errors.New("article id is empty")
	ErrInvalidID          = errors.New("invalid article id")
	ErrContentDir         = errors.New("cannot read content directory")
)

// WordsPerMinute is the reading speed used for estimated reading times.
const WordsPerMinute = 200

// maxExcerptLength bounds generated excerpts, in runes.
const maxExcerptLength = 200

// Article is one blog post. Articles are immutable once loaded.
type Article struct {
	ID            string
	Title         string
	Excerpt       string
	Body          string // markdown, front matter removed
	Tags          []string
	PublishedDate time.Time
	ReadingTime   int // minutes
	Featured      bool
	SourcePath    string
}

// HasTag reports whether the article is tagged with tag.
func (a Article) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// Matches reports whether term occurs, ignoring case, in the title, the
// excerpt or one of the tags. An empty term matches every article.
func (a Article) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	return contains(a.Title) || contains(a.Excerpt) || slices.ContainsFunc(a.Tags, contains)
}

type frontMatter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Excerpt     string   `yaml:"excerpt"`
	Date        any      `yaml:"date"`
	Tags        []string `yaml:"tags"`
	ReadingTime int      `yaml:"readingTime"`
	Featured    bool     `yaml:"featured"`
}

// frontMatterFormats accepts YAML front matter between "---" lines.
var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yamlutil.UnmarshalOptional),
}

// Parse builds an Article from the contents of one markdown file. name is
// the file name, used for the default id.
func Parse(name string, data []byte) (Article, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, frontMatterFormats...)
	if err != nil {
		return Article{}, fmt.Errorf("%w: %s: %v", ErrInvalidFrontMatter, name, err)
	}

	a := Article{
		ID:          strings.TrimSpace(fm.ID),
		Title:       strings.TrimSpace(fm.Title),
		Excerpt:     strings.TrimSpace(fm.Excerpt),
		Body:        string(body),
		Tags:        normalizeTags(fm.Tags),
		ReadingTime: fm.ReadingTime,
		Featured:    fm.Featured,
		SourcePath:  name,
	}

	if a.ID == "" {
		base := filepath.Base(name)
		a.ID = pipeline.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if a.ID == "" {
		return Article{}, fmt.Errorf("%w: %s", ErrEmptyID, name)
	}
	if err := ValidateID(a.ID); err != nil {
		return Article{}, fmt.Errorf("%s: %w", name, err)
	}

	published, err := publishedDate(fm.Date)
	if err != nil {
		return Article{}, fmt.Errorf("%w: %s: %v", ErrInvalidFrontMatter, name, err)
	}
	a.PublishedDate = published

	if a.Title == "" {
		a.Title, a.Body = takeTitle(a.Body)
	}
	if a.Title == "" {
		a.Title = a.ID
	}
	if a.Excerpt == "" {
		a.Excerpt = firstParagraph(a.Body)
	}
	if a.ReadingTime <= 0 {
		a.ReadingTime = EstimateReadingTime(a.Body)
	}

	return a, nil
}

// publishedDate accepts the date either as a string or as a timestamp
// already decoded by the YAML parser.
func publishedDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case string:
		if strings.TrimSpace(d) == "" {
			return time.Time{}, nil
		}
		return dateutil.ParseDate(d)
	default:
		return time.Time{}, fmt.Errorf("%w: %v", dateutil.ErrInvalidDate, v)
	}
}

// EstimateReadingTime returns ceil(words / WordsPerMinute), at least 1.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1)
}

// takeTitle returns the text of the first "# " heading and the body with
// that line removed. Only the leading lines of the body are considered.
func takeTitle(body string) (string, string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			title := strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			rest := slices.Delete(lines, i, i+1)
			return title, strings.TrimLeft(strings.Join(rest, "\n"), "\n")
		}
		break
	}
	return "", body
}

// firstParagraph returns the first prose paragraph of body, shortened to
// maxExcerptLength runes.
func firstParagraph(body string) string {
	var para []string
	var fence pipeline.Fence
	for _, line := range strings.Split(body, "\n") {
		if fence.Step(line) {
			if len(para) > 0 {
				break
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if len(para) == 0 && strings.ContainsAny(trimmed[:1], "#|>-*!<") {
			continue
		}
		para = append(para, trimmed)
	}

	text := strings.Join(para, " ")
	runes := []rune(text)
	if len(runes) <= maxExcerptLength {
		return text
	}
	cut := string(runes[:maxExcerptLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// ValidateID checks that id can name one page directory: no path
// separators, no dot segments, no control characters.
func ValidateID(id string) error {
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) ||
		strings.ContainsFunc(id, unicode.IsControl) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// Load reads every .md and .markdown file under dir (recursively, skipping
// hidden entries) and returns a Store.
func Load(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrContentDir, dir)
	}

	var articles []Article
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsMarkdownFile(path) {
			return nil
		}

		data, err := os.ReadFile(path) // #nosec G304 -- path comes from walking the content dir
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		a, err := Parse(path, data)
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return New(articles)
}

// IsMarkdownFile reports whether path has a markdown extension.
func IsMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
