//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// article builds a post of n sections, each with a heading, prose, a list,
// a code block and every fifth one a diagram.
func article(n int) string {
	var b strings.Builder
	b.WriteString("# Benchmark post\n\nIntro with a [link](./other.md) and ==highlight==.\n\n")
	for i := range n {
		fmt.Fprintf(&b, "## Section %d\n\n", i)
		b.WriteString("Some **bold** and *italic* text with `inline code` and a footnote-free sentence.\n\n")
		fmt.Fprintf(&b, "### Detail %d\n\n- first\n- second\n- third\n\n", i)
		b.WriteString("```go\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n```\n\n")
		if i%5 == 0 {
			b.WriteString("```mermaid\ngraph TD\n  A --> B\n  B ==> C\n```\n\n")
		}
		b.WriteString("| a | b |\n|---|---|\n| 1 | 2 |\n\n")
	}
	return b.String()
}

func BenchmarkConvert(b *testing.B) {
	c := NewGoldmarkConverter()
	ctx := context.Background()

	for _, n := range []int{1, 10, 50, 200} {
		src := article(n)
		b.Run(fmt.Sprintf("sections_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(src)))
			for b.Loop() {
				if _, err := c.Convert(ctx, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkConvert_Parallel(b *testing.B) {
	c := NewGoldmarkConverter()
	src := article(20)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := c.Convert(ctx, src); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkConvert_Classes(b *testing.B) {
	cfg := DefaultConverterConfig()
	cfg.Classes = ClassMap{ElementHeading: "title is-2", ElementParagraph: "body", ElementTable: "table is-striped"}
	c := NewGoldmarkConverterWithConfig(cfg)
	ctx := context.Background()
	src := article(20)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Convert(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPreprocessMarkdown(b *testing.B) {
	p := &CommonMarkPreprocessor{}
	ctx := context.Background()
	src := strings.ReplaceAll(article(50), "\n", "\r\n")

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		_ = p.PreprocessMarkdown(ctx, src)
	}
}
