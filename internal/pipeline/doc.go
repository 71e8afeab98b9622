// Package pipeline implements the Markdown-to-HTML conversion pipeline.
//
// This package handles preprocessing, HTML conversion, and HTML injection stages:
//   - Markdown preprocessing (byte order mark, line endings, blank lines)
//   - Markdown to HTML conversion via Goldmark, with math recognized by mathext
//   - Front matter and title extraction
//   - CSS injection into HTML documents
//   - MathJax loader injection, only for documents that contain math
//   - Table of contents generation and injection
//   - Relative path rewriting when output lands in another directory
//
// Math content is opaque to every stage: no step after goldmark rewrites the
// contents of math script elements.
package pipeline
