package chunker

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New()

// Normalize collapses every whitespace run to a single space and trims the result.
// Markdown documents are first reduced to their plain text.
func Normalize(content, mimeType string) string {
	if IsMarkdown(mimeType) {
		content = MarkdownText([]byte(content))
	}
	return strings.Join(strings.Fields(content), " ")
}

// IsMarkdown reports whether a MIME type denotes markdown content.
func IsMarkdown(mimeType string) bool {
	mt, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), ";")
	switch strings.TrimSpace(mt) {
	case "text/markdown", "text/x-markdown":
		return true
	}
	return false
}

// MarkdownText walks the markdown AST and returns the visible text, with block
// boundaries rendered as newlines. Raw HTML is dropped.
func MarkdownText(source []byte) string {
	doc := markdownParser.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			b.WriteByte('\n')
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}
