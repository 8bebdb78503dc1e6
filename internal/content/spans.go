package content

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Span is a run of paragraph text sharing one emphasis state.
type Span struct {
	Text string
	Bold bool
}

var markdown = goldmark.New()

// Spans parses a paragraph line for **bold** emphasis and returns the
// resulting runs in order. Lines without asterisks skip parsing entirely.
// Stray unmatched asterisks are dropped from plain runs, matching how the
// source feeds use them (decoration, not content).
func Spans(line string) []Span {
	if !strings.Contains(line, "*") {
		return []Span{{Text: line}}
	}

	src := []byte(line)
	root := markdown.Parser().Parse(text.NewReader(src))

	var spans []Span
	boldDepth := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Emphasis:
			if node.Level >= 2 {
				if entering {
					boldDepth++
				} else {
					boldDepth--
				}
			}
		case *ast.Text:
			if entering {
				spans = appendSpan(spans, string(node.Segment.Value(src)), boldDepth > 0)
			}
		case *ast.String:
			if entering {
				spans = appendSpan(spans, string(node.Value), boldDepth > 0)
			}
		}
		return ast.WalkContinue, nil
	})

	if len(spans) == 0 {
		return []Span{{Text: strings.ReplaceAll(line, "*", "")}}
	}
	return spans
}

// appendSpan adds text to the span list, merging with the previous span when
// the emphasis state matches. Plain runs shed leftover asterisks.
func appendSpan(spans []Span, text string, bold bool) []Span {
	if !bold {
		text = strings.ReplaceAll(text, "*", "")
	}
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Bold == bold {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Span{Text: text, Bold: bold})
}
