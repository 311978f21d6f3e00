package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// slugSpace is the whitespace class of browsers' regular expressions: RE2's
// \s plus vertical tab, Unicode space separators and the byte order mark.
const slugSpace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	// slugDisallowed matches anything that cannot appear in a slug before
	// whitespace is turned into hyphens.
	slugDisallowed = regexp.MustCompile(`[^a-z0-9` + slugSpace + `-]`)
	slugSpaces     = regexp.MustCompile(`[` + slugSpace + `]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify converts heading text into a lowercase, hyphen-separated anchor id.
//
// The input is lowercased and trimmed, every character other than ASCII
// letters, digits, whitespace (including Unicode spaces such as NBSP) and
// hyphens is dropped, whitespace runs become
// a single hyphen and hyphen runs collapse to one. Empty input yields "".
//
// Both the heading extractor and the renderer's heading id transformer call
// this function; anchors in the outline and in the rendered document must
// never be derived any other way.
func Slugify(text string) string {
	s := strings.TrimFunc(strings.ToLower(text), isSlugSpace)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugHyphens.ReplaceAllString(s, "-")
}

func isSlugSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) || r == '\uFEFF'
}
