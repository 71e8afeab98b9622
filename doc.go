// Package mdmath converts Markdown documents with TeX math to standalone HTML.
//
// Math written as \(...\) or $...$ becomes inline math, and a block that is
// entirely \[...\] or $$...$$ becomes display math. Both are emitted as the
// script elements MathJax v2 typesets:
//
//	<script type="math/tex">e^{i\pi}+1=0</script>
//	<script type="math/tex; mode=display">% <![CDATA[
//	\int_0^1 f(x)\,dx %]]></script>
//
// Math content is passed through untouched: no Markdown emphasis, escapes or
// HTML escaping is applied to it. The recognizer itself lives in the mathext
// package and can be installed into any goldmark instance.
//
// # Quick Start
//
//	conv, err := mdmath.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mdmath.Input{
//	    Markdown: "# Euler\n\n$e^{i\\pi}+1=0$",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("euler.html", result.HTML, 0644)
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (byte order mark, line endings, blank lines)
//  2. Markdown to HTML via goldmark (GFM, footnotes, front matter,
//     syntax highlighting, math)
//  3. Relative link rewriting when the output lives in another directory
//  4. HTML injection (CSS, MathJax loader, TOC)
//
// The MathJax loader is only injected when the document contains math.
// A document opts out of math with "math: false" in its front matter.
//
// # Configuration
//
//	conv, err := mdmath.NewConverter(
//	    mdmath.WithStyle("default"),
//	    mdmath.WithDelimiters(mathext.DollarDelimiters),
//	    mdmath.WithMathJaxURL("https://example.org/MathJax.js?config=TeX-AMS_CHTML"),
//	)
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. ConverterPool bounds the number of
// conversions in flight:
//
//	pool := mdmath.NewConverterPool(mdmath.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
package mdmath
