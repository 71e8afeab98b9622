package mdmath

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdmath/mathext"
)

// TOC depth bounds.
const (
	MinTOCDepth        = 1
	MaxTOCDepth        = 6
	DefaultTOCMinDepth = 2
	DefaultTOCMaxDepth = 3
)

// Input contains conversion parameters.
type Input struct {
	Markdown  string // Markdown content (required)
	CSS       string // Custom CSS appended after the converter style (optional)
	Title     string // Fallback when the document has no title of its own (optional)
	SourceDir string // Directory of the Markdown file, for relative links (optional)
	OutputDir string // Directory the HTML will be written to (optional)
	TOC       *TOC   // Table of contents (optional, nil = none)
}

// TOC configures the table of contents.
type TOC struct {
	Title    string // Heading above the list (empty = none)
	MinDepth int    // 1-6, 0 means DefaultTOCMinDepth
	MaxDepth int    // 1-6, 0 means DefaultTOCMaxDepth
}

// Validate checks the depth range.
// Returns nil if t is nil (nil means no TOC).
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth != 0 && (t.MinDepth < MinTOCDepth || t.MinDepth > MaxTOCDepth) {
		return fmt.Errorf("%w: minDepth %d (must be between %d and %d)", ErrInvalidTOCDepth, t.MinDepth, MinTOCDepth, MaxTOCDepth)
	}
	if t.MaxDepth != 0 && (t.MaxDepth < MinTOCDepth || t.MaxDepth > MaxTOCDepth) {
		return fmt.Errorf("%w: maxDepth %d (must be between %d and %d)", ErrInvalidTOCDepth, t.MaxDepth, MinTOCDepth, MaxTOCDepth)
	}
	if t.MinDepth != 0 && t.MaxDepth != 0 && t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, t.MinDepth, t.MaxDepth)
	}
	return nil
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML  []byte         // standalone HTML5 document
	Title string         // resolved document title
	Meta  map[string]any // front matter, nil when absent
	Stats mathext.Stats  // math nodes in the document
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	styleInput     string // style name, file path, or CSS content
	resolvedStyle  string // CSS content after resolution
	assetPath      string
	highlightStyle string
	math           bool
	mathJax        bool
	mathJaxURL     string
	delimiters     *mathext.Delimiters
	inlinePriority int
	blockPriority  int
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdmath: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the document stylesheet. The value is a style name
// (see internal styles or WithAssetPath), a file path, or raw CSS.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ override the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithHighlightStyle selects the chroma style for fenced code blocks.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithoutMath disables math recognition. Delimiters stay literal text.
func WithoutMath() Option {
	return func(c *Converter) {
		c.cfg.math = false
	}
}

// WithoutMathJax keeps math markup but never injects the MathJax loader,
// for pages that load a typesetter themselves.
func WithoutMathJax() Option {
	return func(c *Converter) {
		c.cfg.mathJax = false
	}
}

// WithMathJaxURL sets the MathJax loader URL.
// Panics if url is empty (programmer error).
func WithMathJaxURL(url string) Option {
	if url == "" {
		panic("mdmath: WithMathJaxURL requires a URL")
	}
	return func(c *Converter) {
		c.cfg.mathJaxURL = url
	}
}

// WithDelimiters selects the recognized math delimiters.
// Panics if d is nil (programmer error).
func WithDelimiters(d *mathext.Delimiters) Option {
	if d == nil {
		panic("mdmath: WithDelimiters requires a delimiter set")
	}
	return func(c *Converter) {
		c.cfg.delimiters = d
	}
}

// WithInlinePriority sets the goldmark priority of the inline math parser.
// Out of range values are reported by NewConverter.
func WithInlinePriority(p int) Option {
	return func(c *Converter) {
		c.cfg.inlinePriority = p
	}
}

// WithBlockPriority sets the goldmark priority of the display math parser.
// Out of range values are reported by NewConverter.
func WithBlockPriority(p int) Option {
	return func(c *Converter) {
		c.cfg.blockPriority = p
	}
}
