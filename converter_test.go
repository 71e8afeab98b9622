package mdmath

// Notes:
// - Pipeline order and error paths are tested with mocked components
//   injected through test-only options (withPreprocessor, etc.)
// - End-to-end tests run the real goldmark pipeline and check the emitted
//   math markup, MathJax loader, styles and TOC

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/alnah/go-mdmath/mathext"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPreprocessor struct {
	called bool
	input  string
	output string
}

func (m *mockPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	m.called = true
	m.input = content
	if m.output != "" {
		return m.output
	}
	return content
}

type mockHTMLConverter struct {
	called bool
	input  string
	doc    *pipeline.Document
	err    error
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (*pipeline.Document, error) {
	m.called = true
	m.input = content
	if m.err != nil {
		return nil, m.err
	}
	if m.doc != nil {
		return m.doc, nil
	}
	body := "<p>" + content + "</p>"
	return &pipeline.Document{HTML: "<html>" + body + "</html>", Body: body}, nil
}

type mockCSSInjector struct {
	called    bool
	inputHTML string
	inputCSS  string
	output    string
}

func (m *mockCSSInjector) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	m.called = true
	m.inputHTML = htmlContent
	m.inputCSS = cssContent
	if m.output != "" {
		return m.output
	}
	return htmlContent
}

type mockMathJaxInjector struct {
	called    bool
	inputHTML string
	inputData *pipeline.MathJaxData
	output    string
}

func (m *mockMathJaxInjector) InjectMathJax(ctx context.Context, htmlContent string, data *pipeline.MathJaxData) string {
	m.called = true
	m.inputHTML = htmlContent
	m.inputData = data
	if m.output != "" {
		return m.output
	}
	return htmlContent
}

type mockTOCInjector struct {
	called    bool
	inputHTML string
	inputData *pipeline.TOCData
	output    string
	err       error
}

func (m *mockTOCInjector) InjectTOC(ctx context.Context, htmlContent string, data *pipeline.TOCData) (string, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputData = data
	if m.err != nil {
		return "", m.err
	}
	if m.output != "" {
		return m.output, nil
	}
	return htmlContent, nil
}

type panicPreprocessor struct{}

func (p *panicPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	panic("boom")
}

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(c *Converter) {
		c.preprocessor = p
	}
}

func withHTMLConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.htmlConverter = h
	}
}

func withCSSInjector(i pipeline.CSSInjector) Option {
	return func(c *Converter) {
		c.cssInjector = i
	}
}

func withMathJaxInjector(i pipeline.MathJaxInjector) Option {
	return func(c *Converter) {
		c.mathJaxInjector = i
	}
}

func withTOCInjector(i pipeline.TOCInjector) Option {
	return func(c *Converter) {
		c.tocInjector = i
	}
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c
}

func convertHTML(t *testing.T, c *Converter, input Input) (string, *ConvertResult) {
	t.Helper()
	result, err := c.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return string(result.HTML), result
}

// ---------------------------------------------------------------------------
// TestConvert_Success - Pipeline order with mocks
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	preprocessor := &mockPreprocessor{output: "preprocessed"}
	htmlConv := &mockHTMLConverter{doc: &pipeline.Document{
		HTML:  "<html>converted</html>",
		Body:  "converted",
		Title: "T",
		Stats: mathext.Stats{Inline: 2},
	}}
	cssInj := &mockCSSInjector{output: "<html>with-css</html>"}
	mjInj := &mockMathJaxInjector{output: "<html>with-mathjax</html>"}
	tocInj := &mockTOCInjector{output: "<html>with-toc</html>"}

	c := newTestConverter(t,
		withPreprocessor(preprocessor),
		withHTMLConverter(htmlConv),
		withCSSInjector(cssInj),
		withMathJaxInjector(mjInj),
		withTOCInjector(tocInj),
	)

	result, err := c.Convert(context.Background(), Input{Markdown: "# Hello", CSS: "body {}"})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if preprocessor.input != "# Hello" {
		t.Errorf("preprocessor input = %q, want %q", preprocessor.input, "# Hello")
	}
	if htmlConv.input != "preprocessed" {
		t.Errorf("htmlConverter input = %q, want %q", htmlConv.input, "preprocessed")
	}
	if cssInj.inputHTML != "<html>converted</html>" {
		t.Errorf("CSSInjector inputHTML = %q", cssInj.inputHTML)
	}
	if cssInj.inputCSS != "body {}" {
		t.Errorf("CSSInjector inputCSS = %q, want %q", cssInj.inputCSS, "body {}")
	}
	if mjInj.inputHTML != "<html>with-css</html>" {
		t.Errorf("MathJaxInjector inputHTML = %q", mjInj.inputHTML)
	}
	if mjInj.inputData == nil || mjInj.inputData.URL != pipeline.DefaultMathJaxURL {
		t.Errorf("MathJaxInjector data = %+v, want default URL", mjInj.inputData)
	}
	if tocInj.inputHTML != "<html>with-mathjax</html>" {
		t.Errorf("TOCInjector inputHTML = %q", tocInj.inputHTML)
	}
	if tocInj.inputData != nil {
		t.Errorf("TOCInjector data = %+v, want nil", tocInj.inputData)
	}

	if string(result.HTML) != "<html>with-toc</html>" {
		t.Errorf("result.HTML = %q", result.HTML)
	}
	if result.Title != "T" {
		t.Errorf("result.Title = %q, want %q", result.Title, "T")
	}
	if result.Stats.Inline != 2 {
		t.Errorf("result.Stats = %+v, want 2 inline", result.Stats)
	}
}

func TestConvert_NoMathNoLoader(t *testing.T) {
	t.Parallel()

	mjInj := &mockMathJaxInjector{}
	c := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{}),
		withMathJaxInjector(mjInj),
	)

	if _, err := c.Convert(context.Background(), Input{Markdown: "plain"}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !mjInj.called {
		t.Fatal("MathJaxInjector was not called")
	}
	if mjInj.inputData != nil {
		t.Errorf("MathJaxInjector data = %+v, want nil for a document without math", mjInj.inputData)
	}
}

// ---------------------------------------------------------------------------
// TestConvert errors
// ---------------------------------------------------------------------------

func TestConvert_ValidationError(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"empty markdown", Input{Markdown: ""}, ErrEmptyMarkdown},
		{"blank markdown", Input{Markdown: " \n\t"}, ErrEmptyMarkdown},
		{"toc depth out of range", Input{Markdown: "# x", TOC: &TOC{MaxDepth: 7}}, ErrInvalidTOCDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_HTMLConverterError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"conversion failure", pipeline.ErrHTMLConversion, ErrHTMLConversion},
		{"front matter", pipeline.ErrFrontMatter, pipeline.ErrFrontMatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{err: tt.err}))
			_, err := c.Convert(context.Background(), Input{Markdown: "# x"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_TOCInjectorError(t *testing.T) {
	t.Parallel()

	injErr := errors.New("toc failed")
	c := newTestConverter(t, withTOCInjector(&mockTOCInjector{err: injErr}))

	_, err := c.Convert(context.Background(), Input{Markdown: "# x", TOC: &TOC{}})
	if !errors.Is(err, injErr) {
		t.Errorf("Convert() error = %v, want %v", err, injErr)
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, withPreprocessor(&panicPreprocessor{}))

	_, err := c.Convert(context.Background(), Input{Markdown: "# Test"})
	if err == nil {
		t.Fatal("expected error from panic recovery, got nil")
	}
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("expected 'internal error' in message, got %q", err.Error())
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, withPreprocessor(&mockPreprocessor{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, Input{Markdown: "# Test"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Math - End-to-end math handling
// ---------------------------------------------------------------------------

func TestConvert_Math(t *testing.T) {
	t.Parallel()

	const loader = `<script type="text/javascript" async src="` + pipeline.DefaultMathJaxURL + `"></script>`

	tests := []struct {
		name     string
		opts     []Option
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "inline and display math load MathJax",
			markdown: "Let $x$ be\n\n$$\nx^2\n$$\n",
			contains: []string{
				`<script type="math/tex">x</script>`,
				"<script type=\"math/tex; mode=display\">% <![CDATA[\nx^2 %]]></script>",
				loader,
			},
		},
		{
			name:     "no math no loader",
			markdown: "It costs $5 and $10.",
			excludes: []string{"MathJax.js", "math/tex"},
		},
		{
			name:     "math disabled",
			opts:     []Option{WithoutMath()},
			markdown: "$x$",
			contains: []string{"<p>$x$</p>"},
			excludes: []string{"MathJax.js", "math/tex"},
		},
		{
			name:     "loader suppressed",
			opts:     []Option{WithoutMathJax()},
			markdown: "$x$",
			contains: []string{`<script type="math/tex">x</script>`},
			excludes: []string{"MathJax.js"},
		},
		{
			name:     "custom loader URL",
			opts:     []Option{WithMathJaxURL("https://example.org/mj.js?a=1&b=2")},
			markdown: "$x$",
			contains: []string{`src="https://example.org/mj.js?a=1&amp;b=2"`},
		},
		{
			name:     "bracket delimiters only",
			opts:     []Option{WithDelimiters(mathext.BracketDelimiters)},
			markdown: "$x$ and \\(y\\)",
			contains: []string{`$x$ and <script type="math/tex">y</script>`},
		},
		{
			name:     "front matter opt out",
			markdown: "---\nmath: false\n---\n\n$x$\n",
			contains: []string{"<p>$x$</p>"},
			excludes: []string{"MathJax.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t, tt.opts...)
			got, _ := convertHTML(t, c, Input{Markdown: tt.markdown})

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("HTML missing %q\nGot:\n%s", want, got)
				}
			}
			for _, exclude := range tt.excludes {
				if strings.Contains(got, exclude) {
					t.Errorf("HTML should not contain %q\nGot:\n%s", exclude, got)
				}
			}
		})
	}
}

func TestConvert_Stats(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	_, result := convertHTML(t, c, Input{Markdown: "$a$ \\(b\\)\n\n\\[\nc\n\\]\n"})

	want := mathext.Stats{Inline: 2, Display: 1}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Title - Title resolution
// ---------------------------------------------------------------------------

func TestConvert_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     Input
		wantTitle string
	}{
		{"front matter wins", Input{Markdown: "---\ntitle: FM\n---\n\n# H1\n", Title: "file"}, "FM"},
		{"first h1", Input{Markdown: "# H1\n\n# Other\n", Title: "file"}, "H1"},
		{"fallback", Input{Markdown: "no heading", Title: "file"}, "file"},
		{"nothing", Input{Markdown: "no heading"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t)
			got, result := convertHTML(t, c, tt.input)

			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			wantTag := "<title>" + tt.wantTitle + "</title>"
			if tt.wantTitle == "" {
				wantTag = "<title>Document</title>"
			}
			if !strings.Contains(got, wantTag) {
				t.Errorf("HTML missing %q\nGot:\n%s", wantTag, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Styles - Style resolution and CSS assembly
// ---------------------------------------------------------------------------

func TestConvert_Styles(t *testing.T) {
	t.Parallel()

	t.Run("no style by default", func(t *testing.T) {
		t.Parallel()

		got, _ := convertHTML(t, newTestConverter(t), Input{Markdown: "text"})
		if strings.Contains(got, "<style>") {
			t.Errorf("unexpected <style> block:\n%s", got)
		}
	})

	t.Run("embedded style", func(t *testing.T) {
		t.Parallel()

		got, _ := convertHTML(t, newTestConverter(t, WithStyle("default")), Input{Markdown: "text"})
		if !strings.Contains(got, "<style>") {
			t.Errorf("missing <style> block:\n%s", got)
		}
	})

	t.Run("raw CSS then user CSS", func(t *testing.T) {
		t.Parallel()

		got, _ := convertHTML(t, newTestConverter(t, WithStyle("body{color:red}")), Input{Markdown: "text", CSS: "p{margin:0}"})
		if !strings.Contains(got, "<style>body{color:red}\np{margin:0}</style>") {
			t.Errorf("CSS not assembled in order:\n%s", got)
		}
	})

	t.Run("style file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.css")
		if err := os.WriteFile(path, []byte("h1{font-size:3em}"), 0o600); err != nil {
			t.Fatal(err)
		}
		got, _ := convertHTML(t, newTestConverter(t, WithStyle(path)), Input{Markdown: "text"})
		if !strings.Contains(got, "h1{font-size:3em}") {
			t.Errorf("style file not injected:\n%s", got)
		}
	})

	t.Run("highlight CSS only with highlighted code", func(t *testing.T) {
		t.Parallel()

		c := newTestConverter(t)
		got, _ := convertHTML(t, c, Input{Markdown: "```go\nfunc main() {}\n```\n"})
		if !strings.Contains(got, ".chroma") {
			t.Errorf("missing highlight CSS:\n%s", got)
		}
		got, _ = convertHTML(t, c, Input{Markdown: "text"})
		if strings.Contains(got, ".chroma") {
			t.Errorf("unexpected highlight CSS:\n%s", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewConverter - Construction errors
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"unknown style", []Option{WithStyle("nope")}, ErrStyleNotFound},
		{"missing asset path", []Option{WithAssetPath(filepath.Join(os.TempDir(), "mdmath-does-not-exist"))}, ErrInvalidAssetPath},
		{"inline priority before code spans", []Option{WithInlinePriority(50)}, ErrInvalidMath},
		{"block priority after list items", []Option{WithBlockPriority(450)}, mathext.ErrBlockPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConverter(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewConverter() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"zero timeout", func() { WithTimeout(0) }},
		{"empty MathJax URL", func() { WithMathJaxURL("") }},
		{"nil delimiters", func() { WithDelimiters(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, WithTimeout(time.Minute))
	if c.cfg.timeout != time.Minute {
		t.Errorf("timeout = %v, want %v", c.cfg.timeout, time.Minute)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_TOC and paths
// ---------------------------------------------------------------------------

func TestConvert_TOC(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	got, _ := convertHTML(t, c, Input{
		Markdown: "# Title\n\n## Setup\n\n## Energy $E=mc^2$\n",
		TOC:      &TOC{Title: "Contents"},
	})

	for _, want := range []string{
		`<h2 class="toc-title">Contents</h2>`,
		`<a href="#setup">1. Setup</a>`,
		`2. Energy E=mc^2</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q\nGot:\n%s", want, got)
		}
	}
}

func TestConvert_RelativePaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}

	c := newTestConverter(t)
	got, _ := convertHTML(t, c, Input{
		Markdown:  "![plot](img/plot.png)",
		SourceDir: "/site/docs",
		OutputDir: "/site/out",
	})
	if !strings.Contains(got, `src="../docs/img/plot.png"`) {
		t.Errorf("image path not re-anchored:\n%s", got)
	}
}

func TestToTOCData(t *testing.T) {
	t.Parallel()

	if toTOCData(nil) != nil {
		t.Error("toTOCData(nil) should be nil")
	}

	got := toTOCData(&TOC{Title: "T"})
	if got.MinDepth != DefaultTOCMinDepth || got.MaxDepth != DefaultTOCMaxDepth {
		t.Errorf("defaults = %d..%d, want %d..%d", got.MinDepth, got.MaxDepth, DefaultTOCMinDepth, DefaultTOCMaxDepth)
	}

	got = toTOCData(&TOC{MinDepth: 1, MaxDepth: 6})
	if got.MinDepth != 1 || got.MaxDepth != 6 {
		t.Errorf("explicit = %d..%d, want 1..6", got.MinDepth, got.MaxDepth)
	}
}

func TestTOCValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		toc     *TOC
		wantErr bool
	}{
		{"nil", nil, false},
		{"zero values", &TOC{}, false},
		{"full range", &TOC{MinDepth: 1, MaxDepth: 6}, false},
		{"min too low", &TOC{MinDepth: -1}, true},
		{"max too high", &TOC{MaxDepth: 7}, true},
		{"min above max", &TOC{MinDepth: 4, MaxDepth: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.toc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTOCDepth) {
				t.Errorf("Validate() error = %v, want ErrInvalidTOCDepth", err)
			}
		})
	}
}
