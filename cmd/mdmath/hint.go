package main

import (
	"context"
	"errors"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/hints"
	"github.com/alnah/go-mdmath/mathext"
)

// hintFor returns an actionable hint for err, or "" if none applies.
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, mdmath.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mathext.ErrInvalidDelimiters):
		return hints.ForDelimiters(mathext.DelimiterNames())
	case errors.Is(err, mathext.ErrInlinePriority), errors.Is(err, mathext.ErrBlockPriority):
		return hints.ForMathPriority(mathext.CodeSpanPriority, mathext.ListItemPriority)
	case errors.Is(err, ErrNoMarkdownFiles):
		return hints.ForNoMarkdown()
	case errors.Is(err, ErrCreateOutDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
