package mathext

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type blockParser struct {
	delims *Delimiters
}

// NewBlockParser returns a goldmark block parser recognizing display math
// blocks with the given delimiters. A nil set means DefaultDelimiters.
//
// A block is a run of non-blank lines. It becomes display math only when the
// whole block matches; anything else is left to the other block parsers. An
// indented opening delimiter is not display math.
func NewBlockParser(d *Delimiters) parser.BlockParser {
	if d == nil {
		d = DefaultDelimiters
	}
	return &blockParser{delims: d}
}

func (p *blockParser) Trigger() []byte {
	return p.delims.BlockTriggers
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	_, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pc.BlockIndent() > 0 {
		return nil, parser.NoChildren
	}

	start := segment.Start + pos - segment.Padding
	if start < segment.Start || start >= segment.Stop {
		return nil, parser.NoChildren
	}

	block, lines := blockAt(reader.Source(), start)
	if _, ok := p.delims.MatchBlock(block); !ok {
		return nil, parser.NoChildren
	}

	node := NewDisplayMath()
	node.remaining = lines - 1
	node.Lines().Append(text.NewSegment(start, segment.Stop))
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*DisplayMath)
	if n.remaining <= 0 {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if line == nil || util.IsBlank(line) {
		return parser.Close
	}

	n.Lines().Append(segment)
	n.remaining--
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

// Close re-checks the collected lines. Container markers (quotes, list
// indentation) can make them differ from the raw lookahead; a block that no
// longer matches degrades to a paragraph of ordinary inline content.
func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*DisplayMath)
	source := reader.Source()
	lines := n.Lines()

	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	if span, ok := p.delims.MatchBlock(trimEOL(buf.Bytes())); ok {
		n.Payload = Payload{Kind: PayloadRaw, Raw: bytes.Clone(span.Raw)}
		return
	}

	n.Payload = Payload{Kind: PayloadProcessed}
	trimmed := text.NewSegments()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		seg = seg.TrimLeftSpace(source)
		if i == lines.Len()-1 {
			seg = seg.TrimRightSpace(source)
		}
		trimmed.Append(seg)
	}
	n.SetLines(trimmed)
}

func (p *blockParser) CanInterruptParagraph() bool {
	return false
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}

// blockAt returns the block starting at offset start in source, up to the
// next blank line or EOF and without its final newline, together with the
// number of lines it spans.
func blockAt(source []byte, start int) ([]byte, int) {
	end := start
	lines := 0
	for end < len(source) {
		lineEnd := len(source)
		if i := bytes.IndexByte(source[end:], '\n'); i >= 0 {
			lineEnd = end + i + 1
		}
		if lines > 0 && util.IsBlank(source[end:lineEnd]) {
			break
		}
		lines++
		end = lineEnd
	}
	return trimEOL(source[start:end]), lines
}

// trimEOL drops one trailing LF or CRLF.
func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}
