package mathext

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type inlineParser struct {
	delims *Delimiters
}

// NewInlineParser returns a goldmark inline parser recognizing inline math
// with the given delimiters. A nil set means DefaultDelimiters.
func NewInlineParser(d *Delimiters) parser.InlineParser {
	if d == nil {
		d = DefaultDelimiters
	}
	return &inlineParser{delims: d}
}

func (p *inlineParser) Trigger() []byte {
	return p.delims.InlineTriggers
}

// Parse matches at the reader's current position. The current line is tried
// first; if that fails, the rest of the paragraph is tried so \( ... \) can
// span soft line breaks.
func (p *inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if line == nil {
		return nil
	}

	span, ok := p.delims.MatchInlinePrefix(line)
	if !ok {
		run := remainingRun(block)
		if len(run) <= len(line) {
			return nil
		}
		if span, ok = p.delims.MatchInlinePrefix(run); !ok {
			return nil
		}
	}

	node := NewInlineMath(bytes.Clone(span.Raw))
	advance(block, span.End)
	return node
}

// remainingRun returns the text from the reader's position to the end of the
// block, leaving the position unchanged.
func remainingRun(block text.Reader) []byte {
	line, pos := block.Position()
	defer block.SetPosition(line, pos)

	var run []byte
	for {
		l, _ := block.PeekLine()
		if l == nil {
			return run
		}
		run = append(run, l...)
		block.AdvanceLine()
	}
}

// advance moves the reader forward by n bytes, crossing lines as needed.
func advance(block text.Reader, n int) {
	for n > 0 {
		l, _ := block.PeekLine()
		if l == nil {
			return
		}
		if n < len(l) {
			block.Advance(n)
			return
		}
		n -= len(l)
		block.AdvanceLine()
	}
}
