package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Output markup. MathJax and compatible typesetters key on these exact
// strings, so they must not change.
const (
	InlineScriptOpen  = `<script type="math/tex">`
	DisplayScriptOpen = `<script type="math/tex; mode=display">`
	ScriptClose       = `</script>`

	// DisplayPrefix and DisplaySuffix frame display content so that HTML
	// tooling downstream leaves special characters alone.
	DisplayPrefix = "% <![CDATA[\n"
	DisplaySuffix = " %]]>"
)

// HTMLRenderer renders math nodes as MathJax script elements.
type HTMLRenderer struct {
	html.Config
}

// NewHTMLRenderer returns a renderer for InlineMath and DisplayMath nodes.
func NewHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInlineMath, r.renderInline)
	reg.Register(KindDisplayMath, r.renderDisplay)
}

func (r *HTMLRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InlineMath)
	_, _ = w.WriteString(InlineScriptOpen)
	_, _ = w.Write(n.Payload.Raw)
	_, _ = w.WriteString(ScriptClose)
	return ast.WalkSkipChildren, nil
}

func (r *HTMLRenderer) renderDisplay(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*DisplayMath)

	if !n.Payload.Opaque() {
		if entering {
			_, _ = w.WriteString("<p")
			if n.Attributes() != nil {
				html.RenderAttributes(w, n, html.ParagraphAttributeFilter)
			}
			_ = w.WriteByte('>')
		} else {
			_, _ = w.WriteString("</p>\n")
		}
		return ast.WalkContinue, nil
	}

	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(DisplayScriptOpen)
	_, _ = w.WriteString(DisplayPrefix)
	_, _ = w.Write(n.Payload.Raw)
	_, _ = w.WriteString(DisplaySuffix)
	_, _ = w.WriteString(ScriptClose)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
