// Package markdown reduces markdown sources to the plain paragraphs
// the tokenizer expects. Code blocks and raw HTML are dropped; block
// boundaries become paragraph breaks.
package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var excessBreaks = regexp.MustCompile(`\n{3,}`)

// Extract returns the plain text of a markdown document, one blank
// line between blocks.
func Extract(source string) string {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.AutoLink:
			buf.Write(n.URL(src))
		case *ast.String:
			buf.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})

	out := excessBreaks.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out)
}
