package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdmath/mathext"
)

// Sentinel errors for HTML conversion.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrFrontMatter    = errors.New("invalid front matter")
)

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

// defaultTitle is used when a document has no title of its own.
const defaultTitle = "Document"

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// Front matter keys read by the converter.
const (
	metaTitle = "title"
	metaMath  = "math"
)

// MathConfig controls math recognition in the converter.
type MathConfig struct {
	Enabled        bool
	Delimiters     *mathext.Delimiters // nil means mathext.DefaultDelimiters
	InlinePriority int                 // 0 means mathext default
	BlockPriority  int                 // 0 means mathext default
}

// Document is the result of a Markdown to HTML conversion.
type Document struct {
	HTML  string         // standalone HTML5 document
	Body  string         // rendered fragment
	Title string         // front matter title, else first H1, else empty
	Meta  map[string]any // front matter, nil when absent
	Stats mathext.Stats  // math nodes rendered
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (*Document, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md    goldmark.Markdown // math enabled per MathConfig
	plain goldmark.Markdown // never recognizes math; used for "math: false" documents
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// footnotes, front matter, syntax highlighting and, when enabled, math.
// Returns an error if the math priorities are out of range.
func NewGoldmarkConverter(mc MathConfig) (*GoldmarkConverter, error) {
	if err := mathext.ValidatePriorities(mc.InlinePriority, mc.BlockPriority); err != nil {
		return nil, err
	}

	var mathExt []goldmark.Extender
	if mc.Enabled {
		mathExt = append(mathExt, mathext.NewExtension(mathOptions(mc)...))
	}

	return &GoldmarkConverter{
		md:    newMarkdown(mathExt...),
		plain: newMarkdown(),
	}, nil
}

func mathOptions(mc MathConfig) []mathext.Option {
	var opts []mathext.Option
	if mc.Delimiters != nil {
		opts = append(opts, mathext.WithDelimiters(mc.Delimiters))
	}
	if mc.InlinePriority != 0 {
		opts = append(opts, mathext.WithInlinePriority(mc.InlinePriority))
	}
	if mc.BlockPriority != 0 {
		opts = append(opts, mathext.WithBlockPriority(mc.BlockPriority))
	}
	return opts
}

func newMarkdown(extra ...goldmark.Extender) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		meta.Meta,          // YAML front matter
		highlighting.NewHighlighting(
			highlighting.WithStyle(DefaultHighlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes, stylesheet from HighlightCSS
			),
		),
	}
	exts = append(exts, extra...)

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // IDs for headings (required for TOC)
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			// Note: WithUnsafe() intentionally NOT used; math renders through
			// its own node renderer, not as raw HTML.
		),
	)
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()
		doc, err := c.convert([]byte(content))
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *GoldmarkConverter) convert(source []byte) (*Document, error) {
	root, fm, err := parse(c.md, source)
	if err != nil {
		return nil, err
	}

	md := c.md
	if !mathAllowed(fm) {
		md = c.plain
		if root, fm, err = parse(md, source); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	doc := &Document{
		Body:  buf.String(),
		Title: documentTitle(fm, root, source),
		Meta:  fm,
		Stats: mathext.Count(root),
	}
	doc.HTML = WrapDocument(doc.Title, doc.Body)
	return doc, nil
}

// WrapDocument embeds body in a standalone HTML5 document with the given
// title. An empty title becomes "Document".
func WrapDocument(title, body string) string {
	if title == "" {
		title = defaultTitle
	}
	return fmt.Sprintf(htmlTemplate, html.EscapeString(title), body)
}

// parse runs the goldmark parser with a fresh context so heading IDs and
// front matter never leak between documents.
func parse(md goldmark.Markdown, source []byte) (ast.Node, map[string]any, error) {
	pc := parser.NewContext(parser.WithIDs(newAnchorIDs()))
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	fm, err := meta.TryGet(pc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	if len(fm) == 0 {
		fm = nil
	}
	return root, fm, nil
}

// mathAllowed reports whether front matter leaves math enabled.
// Accepts YAML booleans and their string spellings.
func mathAllowed(fm map[string]any) bool {
	v, ok := fm[metaMath]
	if !ok {
		return true
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
		switch strings.ToLower(b) {
		case "off", "no":
			return false
		}
	}
	return true
}

// documentTitle picks the front matter title, else the first H1 text.
func documentTitle(fm map[string]any, root ast.Node, source []byte) string {
	if t, ok := fm[metaTitle].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text of n's descendants. Math contributes its
// raw TeX.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *mathext.InlineMath:
			sb.Write(v.Payload.Raw)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// HighlightCSS returns the stylesheet for the chroma classes emitted in
// fenced code blocks. Unknown style names fall back to chroma's default.
func HighlightCSS(styleName string) (string, error) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return writeChromaCSS(style)
}

func writeChromaCSS(style *chroma.Style) (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: highlight stylesheet: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
