package mathext

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

/*
goldmark defaults this extension is placed against (lower runs first):

	CodeSpanParser   100  inline, '`'
	LinkParser       200  inline
	ListParser       300  block
	ListItemParser   400  block
	CodeBlockParser  500  block, indented code
	ParagraphParser 1000  block

Backslash escapes are not a registered parser: goldmark resolves them in its
inline loop after every triggered parser has declined.
*/
const (
	CodeSpanPriority = 100
	ListItemPriority = 400

	DefaultInlinePriority   = 150
	DefaultBlockPriority    = 350
	DefaultRendererPriority = 500
)

// Extension registers math parsers and the math renderer with goldmark.
type Extension struct {
	delims           *Delimiters
	inlinePriority   int
	blockPriority    int
	rendererPriority int
}

// Option configures an Extension.
type Option func(*Extension)

// Math is the extension with default delimiters and priorities.
var Math goldmark.Extender = NewExtension()

// NewExtension creates an Extension. Without options it recognizes all
// delimiter forms at the default priorities.
func NewExtension(opts ...Option) *Extension {
	e := &Extension{
		delims:           DefaultDelimiters,
		inlinePriority:   DefaultInlinePriority,
		blockPriority:    DefaultBlockPriority,
		rendererPriority: DefaultRendererPriority,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Install registers math support on m.
func Install(m goldmark.Markdown, opts ...Option) {
	NewExtension(opts...).Extend(m)
}

// WithDelimiters selects the delimiter set.
// Panics if d is nil (programmer error).
func WithDelimiters(d *Delimiters) Option {
	if d == nil {
		panic("mathext: WithDelimiters requires a delimiter set")
	}
	return func(e *Extension) {
		e.delims = d
	}
}

// WithInlinePriority sets the inline parser priority.
// Panics if p does not run after code spans.
func WithInlinePriority(p int) Option {
	if err := validateInlinePriority(p); err != nil {
		panic("mathext: " + err.Error())
	}
	return func(e *Extension) {
		e.inlinePriority = p
	}
}

// WithBlockPriority sets the block parser priority.
// Panics if p does not run before list items.
func WithBlockPriority(p int) Option {
	if err := validateBlockPriority(p); err != nil {
		panic("mathext: " + err.Error())
	}
	return func(e *Extension) {
		e.blockPriority = p
	}
}

// WithRendererPriority sets the node renderer priority.
func WithRendererPriority(p int) Option {
	return func(e *Extension) {
		e.rendererPriority = p
	}
}

// ValidatePriorities checks priorities taken from configuration.
// Zero means "use the default" and is always accepted.
func ValidatePriorities(inline, block int) error {
	if inline != 0 {
		if err := validateInlinePriority(inline); err != nil {
			return err
		}
	}
	if block != 0 {
		if err := validateBlockPriority(block); err != nil {
			return err
		}
	}
	return nil
}

func validateInlinePriority(p int) error {
	if p <= CodeSpanPriority {
		return fmt.Errorf("%w: %d (must be greater than %d so code spans win)", ErrInlinePriority, p, CodeSpanPriority)
	}
	return nil
}

func validateBlockPriority(p int) error {
	if p <= 0 || p >= ListItemPriority {
		return fmt.Errorf("%w: %d (must be between 1 and %d so math precedes list items)", ErrBlockPriority, p, ListItemPriority-1)
	}
	return nil
}

// Delimiters returns the configured delimiter set.
func (e *Extension) Delimiters() *Delimiters {
	return e.delims
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewBlockParser(e.delims), e.blockPriority),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewInlineParser(e.delims), e.inlinePriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewHTMLRenderer(), e.rendererPriority),
		),
	)
}
