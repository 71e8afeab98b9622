package mathext

import (
	"bytes"
	"fmt"
	"regexp"
)

// Pattern sources for the default delimiter set.
// Each inline alternative owns exactly one capture group; only one is
// populated per match. The block pattern is matched against a whole block.
const (
	// InlinePattern matches \( ... \) (any content, may be empty) or $...$
	// (one or more characters, no whitespace or '$' inside).
	InlinePattern = `\\\((.*?)\\\)|\$([^ \t\r\n$]+?)\$`

	// BlockPattern matches \[ ... \] or $$ ... $$. Opener and closer are
	// independent alternatives.
	BlockPattern = `(?:\\\[|\$\$)(.*)(?:\\\]|\$\$)`
)

// Delimiters holds the patterns used by the inline and block matchers
// together with the bytes that trigger them in goldmark.
// Build with NewDelimiters; the zero value is not usable.
type Delimiters struct {
	Name           string
	Inline         string
	Block          string
	InlineTriggers []byte
	BlockTriggers  []byte

	inline         *regexp.Regexp
	inlineAnchored *regexp.Regexp
	block          *regexp.Regexp
}

// Built-in delimiter sets.
var (
	// DefaultDelimiters recognizes \( \), $ $, \[ \] and $$ $$.
	DefaultDelimiters = MustDelimiters("all", InlinePattern, BlockPattern, []byte{'\\', '$'}, []byte{'\\', '$'})

	// DollarDelimiters recognizes only $ $ and $$ $$.
	DollarDelimiters = MustDelimiters("dollar", `\$([^ \t\r\n$]+?)\$`, `\$\$(.*)\$\$`, []byte{'$'}, []byte{'$'})

	// BracketDelimiters recognizes only \( \) and \[ \].
	BracketDelimiters = MustDelimiters("bracket", `\\\((.*?)\\\)`, `\\\[(.*)\\\]`, []byte{'\\'}, []byte{'\\'})
)

// NewDelimiters compiles a delimiter set. Both patterns run in DOTALL mode;
// the block pattern is anchored to the whole block.
func NewDelimiters(name, inline, block string, inlineTriggers, blockTriggers []byte) (*Delimiters, error) {
	if len(inlineTriggers) == 0 || len(blockTriggers) == 0 {
		return nil, fmt.Errorf("%w: %s: triggers cannot be empty", ErrInvalidDelimiters, name)
	}

	d := &Delimiters{
		Name:           name,
		Inline:         inline,
		Block:          block,
		InlineTriggers: inlineTriggers,
		BlockTriggers:  blockTriggers,
	}

	var err error
	if d.inline, err = regexp.Compile(`(?s)` + inline); err != nil {
		return nil, fmt.Errorf("%w: %s: inline: %v", ErrInvalidDelimiters, name, err)
	}
	if d.inlineAnchored, err = regexp.Compile(`(?s)\A(?:` + inline + `)`); err != nil {
		return nil, fmt.Errorf("%w: %s: inline: %v", ErrInvalidDelimiters, name, err)
	}
	if d.block, err = regexp.Compile(`(?s)\A(?:` + block + `)\z`); err != nil {
		return nil, fmt.Errorf("%w: %s: block: %v", ErrInvalidDelimiters, name, err)
	}
	if d.block.NumSubexp() < 1 || d.inline.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: %s: patterns need a capture group", ErrInvalidDelimiters, name)
	}
	return d, nil
}

// MustDelimiters is like NewDelimiters but panics on error.
func MustDelimiters(name, inline, block string, inlineTriggers, blockTriggers []byte) *Delimiters {
	d, err := NewDelimiters(name, inline, block, inlineTriggers, blockTriggers)
	if err != nil {
		panic(err)
	}
	return d
}

// LookupDelimiters returns a built-in delimiter set by name.
func LookupDelimiters(name string) (*Delimiters, bool) {
	switch name {
	case "", DefaultDelimiters.Name:
		return DefaultDelimiters, true
	case DollarDelimiters.Name:
		return DollarDelimiters, true
	case BracketDelimiters.Name:
		return BracketDelimiters, true
	}
	return nil, false
}

// DelimiterNames lists the built-in delimiter set names.
func DelimiterNames() []string {
	return []string{DefaultDelimiters.Name, DollarDelimiters.Name, BracketDelimiters.Name}
}

// FindInline returns the first inline math span starting at or after from.
func (d *Delimiters) FindInline(text []byte, from int) (Span, bool) {
	if from < 0 || from > len(text) {
		return Span{}, false
	}
	loc := d.inline.FindSubmatchIndex(text[from:])
	if loc == nil {
		return Span{}, false
	}
	raw, ok := firstGroup(text[from:], loc)
	if !ok {
		return Span{}, false
	}
	return Span{Raw: raw, Start: from + loc[0], End: from + loc[1]}, true
}

// MatchInlinePrefix reports an inline math span that starts exactly at the
// beginning of text.
func (d *Delimiters) MatchInlinePrefix(text []byte) (Span, bool) {
	loc := d.inlineAnchored.FindSubmatchIndex(text)
	if loc == nil {
		return Span{}, false
	}
	raw, ok := firstGroup(text, loc)
	if !ok {
		return Span{}, false
	}
	return Span{Raw: raw, Start: loc[0], End: loc[1]}, true
}

// MatchBlock reports whether the entire block is display math.
// CRLF in the captured content becomes LF, then the content loses its
// leading and trailing newlines only.
func (d *Delimiters) MatchBlock(block []byte) (Span, bool) {
	loc := d.block.FindSubmatchIndex(block)
	if loc == nil {
		return Span{}, false
	}
	raw, ok := firstGroup(block, loc)
	if !ok {
		return Span{}, false
	}
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	return Span{
		Raw:     bytes.Trim(raw, "\n"),
		Display: true,
		Start:   loc[0],
		End:     loc[1],
	}, true
}

// firstGroup returns the first populated capture group of a match.
func firstGroup(text []byte, loc []int) ([]byte, bool) {
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return text[loc[i]:loc[i+1]], true
		}
	}
	return nil, false
}
