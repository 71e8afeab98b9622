package mathext

import (
	"github.com/yuin/goldmark/ast"
)

// Span is one recognized occurrence of math content.
// Start and End are half-open byte offsets into the searched text.
type Span struct {
	Raw     []byte
	Display bool
	Start   int
	End     int
}

// Mode distinguishes inline math from display math.
type Mode int

const (
	ModeInline Mode = iota
	ModeDisplay
)

func (m Mode) String() string {
	if m == ModeDisplay {
		return "display"
	}
	return "inline"
}

// PayloadKind tags how renderers must treat a math node's content.
type PayloadKind int

const (
	// PayloadRaw content is opaque: written verbatim, never re-parsed.
	PayloadRaw PayloadKind = iota

	// PayloadProcessed content lives in the node's children as ordinary
	// inline nodes. Used when a display block degrades to prose.
	PayloadProcessed
)

// Payload is the content carried by a math node.
type Payload struct {
	Kind PayloadKind
	Raw  []byte
}

// Opaque reports whether the payload must be emitted verbatim.
func (p Payload) Opaque() bool {
	return p.Kind == PayloadRaw
}

// Node kinds for math nodes.
var (
	KindInlineMath  = ast.NewNodeKind("InlineMath")
	KindDisplayMath = ast.NewNodeKind("DisplayMath")
)

// InlineMath is math embedded in a run of text, e.g. \(x\) or $x$.
type InlineMath struct {
	ast.BaseInline
	Payload Payload
}

// NewInlineMath returns an inline math node with an opaque payload.
func NewInlineMath(raw []byte) *InlineMath {
	return &InlineMath{Payload: Payload{Kind: PayloadRaw, Raw: raw}}
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind {
	return KindInlineMath
}

// Mode returns ModeInline.
func (n *InlineMath) Mode() Mode {
	return ModeInline
}

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Raw": string(n.Payload.Raw)}, nil)
}

// DisplayMath is a block of display math, e.g. $$ ... $$ on its own.
type DisplayMath struct {
	ast.BaseBlock
	Payload Payload

	// lines of the block still to be consumed after Open
	remaining int
}

// NewDisplayMath returns an empty display math node.
func NewDisplayMath() *DisplayMath {
	return &DisplayMath{}
}

// Kind implements ast.Node.
func (n *DisplayMath) Kind() ast.NodeKind {
	return KindDisplayMath
}

// Mode returns ModeDisplay.
func (n *DisplayMath) Mode() Mode {
	return ModeDisplay
}

// IsRaw keeps goldmark from running inline parsers over opaque content.
func (n *DisplayMath) IsRaw() bool {
	return n.Payload.Opaque()
}

// Dump implements ast.Node.
func (n *DisplayMath) Dump(source []byte, level int) {
	kv := map[string]string{"Raw": string(n.Payload.Raw)}
	if !n.Payload.Opaque() {
		kv["Payload"] = "processed"
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

// Stats counts math nodes in a document.
type Stats struct {
	Inline  int
	Display int
}

// Total returns the number of math nodes.
func (s Stats) Total() int {
	return s.Inline + s.Display
}

// Count walks a parsed document and tallies its math nodes.
// Display blocks that degraded to prose are not counted.
func Count(doc ast.Node) Stats {
	var s Stats
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *InlineMath:
			s.Inline++
		case *DisplayMath:
			if v.Payload.Opaque() {
				s.Display++
			}
		}
		return ast.WalkContinue, nil
	})
	return s
}
