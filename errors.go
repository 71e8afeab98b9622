package mdmath

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrHTMLConversion   = errors.New("HTML conversion failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidTOCDepth  = errors.New("invalid TOC depth")
	ErrInvalidMath      = errors.New("invalid math configuration")
	ErrPoolClosed       = errors.New("converter pool closed")
)
