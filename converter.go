package mdmath

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/alnah/go-mdmath/mathext"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.MathJaxInjector      = (*pipeline.MathJaxInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
)

// chromaMarker appears in the body only when a fenced block was highlighted.
const chromaMarker = `class="chroma"`

// Converter orchestrates the Markdown-to-HTML conversion pipeline.
// A Converter is safe for concurrent use.
type Converter struct {
	cfg             converterConfig
	assetLoader     assets.AssetLoader
	preprocessor    pipeline.MarkdownPreprocessor
	htmlConverter   pipeline.HTMLConverter
	cssInjector     pipeline.CSSInjector
	mathJaxInjector pipeline.MathJaxInjector
	tocInjector     pipeline.TOCInjector
	highlightCSS    string
}

// NewConverter creates a Converter with default configuration: all math
// delimiters recognized, MathJax loaded from DefaultMathJaxURL when a document
// contains math, no stylesheet.
// Returns error if the style cannot be resolved or math settings are invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			math:       true,
			mathJax:    true,
			mathJaxURL: pipeline.DefaultMathJaxURL,
		},
		assetLoader:     assets.NewEmbeddedLoader(),
		preprocessor:    &pipeline.CommonMarkPreprocessor{},
		cssInjector:     &pipeline.CSSInjection{},
		mathJaxInjector: &pipeline.MathJaxInjection{},
		tocInjector:     pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	css, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return nil, err
	}
	c.highlightCSS = css

	if c.htmlConverter == nil {
		gc, err := pipeline.NewGoldmarkConverter(pipeline.MathConfig{
			Enabled:        c.cfg.math,
			Delimiters:     c.cfg.delimiters,
			InlinePriority: c.cfg.inlinePriority,
			BlockPriority:  c.cfg.blockPriority,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMath, err)
		}
		c.htmlConverter = gc
	}

	return c, nil
}

// Convert runs the full pipeline and returns the standalone HTML document.
// The context is used for cancellation; the converter timeout bounds each call.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	doc, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		if errors.Is(err, pipeline.ErrHTMLConversion) {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	title := doc.Title
	htmlContent := doc.HTML
	if title == "" && input.Title != "" {
		title = input.Title
		htmlContent = pipeline.WrapDocument(title, doc.Body)
	}

	htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir, input.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}

	// Converter style first (base), user CSS last (can override)
	cssContent := c.cfg.resolvedStyle
	if strings.Contains(doc.Body, chromaMarker) {
		cssContent = joinCSS(cssContent, c.highlightCSS)
	}
	cssContent = joinCSS(cssContent, input.CSS)

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent = c.mathJaxInjector.InjectMathJax(ctx, htmlContent, c.mathJaxData(doc.Stats))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, toTOCData(input.TOC))
	if err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	return &ConvertResult{
		HTML:  []byte(htmlContent),
		Title: title,
		Meta:  doc.Meta,
		Stats: doc.Stats,
	}, nil
}

// mathJaxData returns the loader configuration, or nil when the document
// has nothing to typeset.
func (c *Converter) mathJaxData(stats mathext.Stats) *pipeline.MathJaxData {
	if !c.cfg.math || !c.cfg.mathJax || stats.Total() == 0 {
		return nil
	}
	return &pipeline.MathJaxData{URL: c.cfg.mathJaxURL}
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	// CSS first: comments make raw CSS look like a path
	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
// Library users building Input by hand and the CLI both pass through here.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	return input.TOC.Validate()
}

func joinCSS(base, extra string) string {
	switch {
	case extra == "":
		return base
	case base == "":
		return extra
	}
	return base + "\n" + extra
}

// toTOCData converts the public TOC type to internal pipeline.TOCData.
func toTOCData(t *TOC) *pipeline.TOCData {
	if t == nil {
		return nil
	}
	minDepth := t.MinDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	maxDepth := t.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return &pipeline.TOCData{
		Title:    t.Title,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}
