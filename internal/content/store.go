package content

import (
	"fmt"
	"slices"
	"strings"
)

// Store is an immutable, ordered set of articles. It is safe for
// concurrent use.
type Store struct {
	articles []Article // newest first, ties by id
	byID     map[string]int
}

// New creates a Store from articles. Ids must be unique.
func New(articles []Article) (*Store, error) {
	s := &Store{
		articles: slices.Clone(articles),
		byID:     make(map[string]int, len(articles)),
	}

	slices.SortStableFunc(s.articles, func(a, b Article) int {
		if c := b.PublishedDate.Compare(a.PublishedDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	for i, a := range s.articles {
		if prev, dup := s.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateID, a.ID, s.articles[prev].SourcePath, a.SourcePath)
		}
		s.byID[a.ID] = i
	}
	return s, nil
}

// Lookup returns the article with id. ok is false when there is none.
func (s *Store) Lookup(id string) (Article, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Article{}, false
	}
	return s.articles[i], true
}

// Len returns the number of articles.
func (s *Store) Len() int {
	return len(s.articles)
}

// All returns every article, newest first.
func (s *Store) All() []Article {
	return slices.Clone(s.articles)
}

// Featured returns the featured articles, newest first.
func (s *Store) Featured() []Article {
	return s.filter(func(a Article) bool { return a.Featured })
}

// ByTag returns the articles tagged with tag, newest first.
func (s *Store) ByTag(tag string) []Article {
	return s.filter(func(a Article) bool { return a.HasTag(tag) })
}

// Search returns the articles matching term, newest first. See
// Article.Matches.
func (s *Store) Search(term string) []Article {
	return s.filter(func(a Article) bool { return a.Matches(term) })
}

// Tags returns every tag in use, sorted.
func (s *Store) Tags() []string {
	var tags []string
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// Related returns up to n other articles sharing at least one tag with the
// article id, in listing order. Unknown ids have no related articles.
func (s *Store) Related(id string, n int) []Article {
	a, ok := s.Lookup(id)
	if !ok || n <= 0 || len(a.Tags) == 0 {
		return nil
	}

	var related []Article
	for _, other := range s.articles {
		if other.ID == id {
			continue
		}
		if slices.ContainsFunc(other.Tags, a.HasTag) {
			related = append(related, other)
			if len(related) == n {
				break
			}
		}
	}
	return related
}

func (s *Store) filter(keep func(Article) bool) []Article {
	var out []Article
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
