package mathext

import "errors"

// Sentinel errors for extension configuration.
// Math content itself never produces errors: unmatched delimiters stay text.
var (
	ErrInvalidDelimiters = errors.New("invalid math delimiters")
	ErrInlinePriority    = errors.New("invalid inline math priority")
	ErrBlockPriority     = errors.New("invalid block math priority")
)
