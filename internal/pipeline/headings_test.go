package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []Heading
	}{
		{
			name: "h2 and h3 in order",
			body: "# Title\n\n## Intro\n\ntext\n\n### Details\n\n## Next Steps\n",
			want: []Heading{
				{ID: "intro", Text: "Intro", Level: 2},
				{ID: "details", Text: "Details", Level: 3},
				{ID: "next-steps", Text: "Next Steps", Level: 2},
			},
		},
		{
			name: "h1 and h4 ignored",
			body: "# Top\n#### Deep\n##### Deeper",
			want: nil,
		},
		{
			name: "text trimmed and slugged",
			body: "##   Hello, World!   ",
			want: []Heading{{ID: "hello-world", Text: "Hello, World!", Level: 2}},
		},
		{
			name: "CRLF input",
			body: "## One\r\n### Two\r\n",
			want: []Heading{
				{ID: "one", Text: "One", Level: 2},
				{ID: "two", Text: "Two", Level: 3},
			},
		},
		{
			name: "no space after hashes is not a heading",
			body: "##NoSpace\n###AlsoNot",
			want: nil,
		},
		{
			name: "indented heading is not matched",
			body: "  ## Indented",
			want: nil,
		},
		{
			name: "duplicate texts keep duplicate ids",
			body: "## Setup\n## Setup",
			want: []Heading{
				{ID: "setup", Text: "Setup", Level: 2},
				{ID: "setup", Text: "Setup", Level: 2},
			},
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractHeadings(tt.body)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractHeadings() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractHeadings_MatchesRenderedAnchors(t *testing.T) {
	t.Parallel()

	body := "## Getting Started\n\nSome text.\n\n### Install *the* `cli`\n"
	headings := ExtractHeadings(body)

	doc, err := NewGoldmarkConverter().Convert(context.Background(), body)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	rendered := doc.Tree.Headings()
	if len(rendered) != len(headings) {
		t.Fatalf("rendered %d anchored headings, outline has %d", len(rendered), len(headings))
	}
	if headings[0].ID != "getting-started" {
		t.Errorf("outline id = %q, want %q", headings[0].ID, "getting-started")
	}
	for i := range headings {
		if rendered[i].ID != headings[i].ID {
			t.Errorf("heading %d: rendered id %q != outline id %q", i, rendered[i].ID, headings[i].ID)
		}
	}
}
