// Package mathext recognizes TeX math in Markdown and turns it into
// MathJax script elements, as a goldmark extension.
//
// # Quick Start
//
//	md := goldmark.New(goldmark.WithExtensions(mathext.Math))
//	var buf bytes.Buffer
//	err := md.Convert([]byte(`Euler: $e^{i\pi}+1=0$`), &buf)
//
// # Delimiters
//
// Inline math is \( ... \) or $...$. The dollar form must not contain
// whitespace or '$', which keeps prices like "$5 and $10" as text.
// Display math is a whole block wrapped in \[ ... \] or $$ ... $$:
//
//	$$
//	\int_0^1 f(x)\,dx
//	$$
//
// A block with anything after the closing delimiter is not display math,
// and neither is one whose opening delimiter is indented. CRLF line endings
// inside display math become LF. Unterminated delimiters are never an error;
// the text is left as is.
//
// Backslash escapes follow CommonMark and are resolved before math is
// recognized: \$x$ renders as the literal text $x$, and an escaped backslash
// before \( does not open math.
//
// Delimiter patterns are data (see Delimiters). DollarDelimiters and
// BracketDelimiters restrict recognition to one style:
//
//	md := goldmark.New(goldmark.WithExtensions(
//	    mathext.NewExtension(mathext.WithDelimiters(mathext.DollarDelimiters)),
//	))
//
// # Output
//
// Inline math renders as
//
//	<script type="math/tex">RAW</script>
//
// and display math as
//
//	<script type="math/tex; mode=display">% <![CDATA[
//	RAW %]]></script>
//
// Math content is opaque: no emphasis, links or escapes are applied to it.
//
// # Priorities
//
// The inline parser must run after goldmark's code span parser so that
// `$x$` stays code. The block parser must run before list items. Both are
// configurable with WithInlinePriority and WithBlockPriority.
package mathext
