package mathext

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFindInline - Inline span search
// ---------------------------------------------------------------------------

func TestFindInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		from      int
		wantOK    bool
		wantRaw   string
		wantStart int
		wantEnd   int
	}{
		{
			name:  "no delimiters",
			input: "plain prose without math",
		},
		{
			name:      "bracket form",
			input:     `\(x^2\)`,
			wantOK:    true,
			wantRaw:   "x^2",
			wantStart: 0,
			wantEnd:   7,
		},
		{
			name:      "dollar form",
			input:     "$a+b$",
			wantOK:    true,
			wantRaw:   "a+b",
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:  "space padded dollar form",
			input: "$ a+b $",
		},
		{
			name:  "prices are not math",
			input: "costs $5 and $10 today",
		},
		{
			name:  "unterminated bracket form",
			input: `\(x+y`,
		},
		{
			name:      "empty bracket form",
			input:     `\(\)`,
			wantOK:    true,
			wantRaw:   "",
			wantStart: 0,
			wantEnd:   4,
		},
		{
			name:      "bracket form spans lines",
			input:     "\\(a\nb\\)",
			wantOK:    true,
			wantRaw:   "a\nb",
			wantStart: 0,
			wantEnd:   7,
		},
		{
			name:  "dollar form does not span lines",
			input: "$a\nb$",
		},
		{
			name:      "match inside prose",
			input:     "where $x_1$ is known",
			wantOK:    true,
			wantRaw:   "x_1",
			wantStart: 6,
			wantEnd:   11,
		},
		{
			name:      "non greedy bracket form",
			input:     `\(a\) and \(b\)`,
			wantOK:    true,
			wantRaw:   "a",
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:      "search from offset",
			input:     `\(a\) and \(b\)`,
			from:      5,
			wantOK:    true,
			wantRaw:   "b",
			wantStart: 10,
			wantEnd:   15,
		},
		{
			name:  "offset past end",
			input: "$a$",
			from:  10,
		},
		{
			name:  "rendered markup does not match",
			input: `<script type="math/tex">x^2</script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, ok := DefaultDelimiters.FindInline([]byte(tt.input), tt.from)
			if ok != tt.wantOK {
				t.Fatalf("FindInline(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if string(span.Raw) != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", span.Raw, tt.wantRaw)
			}
			if span.Start != tt.wantStart || span.End != tt.wantEnd {
				t.Errorf("range = [%d,%d), want [%d,%d)", span.Start, span.End, tt.wantStart, tt.wantEnd)
			}
			if span.Display {
				t.Error("Display = true, want false")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMatchInlinePrefix - Anchored inline matching
// ---------------------------------------------------------------------------

func TestMatchInlinePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantRaw string
	}{
		{"match at start", "$x$ rest", true, "x"},
		{"match later is rejected", "a $x$", false, ""},
		{"double dollar is not inline", "$$x$$", false, ""},
		{"escaped dollar", `\$x$`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, ok := DefaultDelimiters.MatchInlinePrefix([]byte(tt.input))
			if ok != tt.wantOK {
				t.Fatalf("MatchInlinePrefix(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && string(span.Raw) != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", span.Raw, tt.wantRaw)
			}
			if ok && span.Start != 0 {
				t.Errorf("Start = %d, want 0", span.Start)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMatchBlock - Whole-block display matching
// ---------------------------------------------------------------------------

func TestMatchBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantRaw string
	}{
		{
			name:    "dollar block strips outer newlines",
			input:   "$$\n\\int_0^1 f(x)\\,dx\n$$",
			wantOK:  true,
			wantRaw: `\int_0^1 f(x)\,dx`,
		},
		{
			name:    "bracket block",
			input:   `\[x = y\]`,
			wantOK:  true,
			wantRaw: "x = y",
		},
		{
			name:    "other whitespace preserved",
			input:   "$$  a  $$",
			wantOK:  true,
			wantRaw: "  a  ",
		},
		{
			name:    "only newlines stripped",
			input:   "$$\n\n  a\n\t\n$$",
			wantOK:  true,
			wantRaw: "  a\n\t",
		},
		{
			name:    "crlf content normalized",
			input:   "$$\r\nx\r\n$$",
			wantOK:  true,
			wantRaw: "x",
		},
		{
			name:    "interior crlf normalized",
			input:   "$$\r\na\r\nb\r\n$$",
			wantOK:  true,
			wantRaw: "a\nb",
		},
		{
			name:    "mixed delimiters match",
			input:   `\[x$$`,
			wantOK:  true,
			wantRaw: "x",
		},
		{
			name:    "greedy capture",
			input:   "$$a$$ $$b$$",
			wantOK:  true,
			wantRaw: "a$$ $$b",
		},
		{
			name:   "trailing prose",
			input:  "$$ a = b $$ extra text",
			wantOK: false,
		},
		{
			name:   "leading prose",
			input:  "see $$ a $$",
			wantOK: false,
		},
		{
			name:   "unterminated",
			input:  "$$\nx + y",
			wantOK: false,
		},
		{
			name:   "plain text",
			input:  "nothing to see",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, ok := DefaultDelimiters.MatchBlock([]byte(tt.input))
			if ok != tt.wantOK {
				t.Fatalf("MatchBlock(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if string(span.Raw) != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", span.Raw, tt.wantRaw)
			}
			if !span.Display {
				t.Error("Display = false, want true")
			}
			if span.Start != 0 || span.End != len(tt.input) {
				t.Errorf("range = [%d,%d), want [0,%d)", span.Start, span.End, len(tt.input))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRestrictedDelimiters - Built-in alternative sets
// ---------------------------------------------------------------------------

func TestRestrictedDelimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		delims      *Delimiters
		inline      string
		inlineMatch bool
		block       string
		blockMatch  bool
	}{
		{"dollar accepts dollar", DollarDelimiters, "$x$", true, "$$x$$", true},
		{"dollar rejects bracket", DollarDelimiters, `\(x\)`, false, `\[x\]`, false},
		{"bracket accepts bracket", BracketDelimiters, `\(x\)`, true, `\[x\]`, true},
		{"bracket rejects dollar", BracketDelimiters, "$x$", false, "$$x$$", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := tt.delims.FindInline([]byte(tt.inline), 0); ok != tt.inlineMatch {
				t.Errorf("FindInline(%q) = %v, want %v", tt.inline, ok, tt.inlineMatch)
			}
			if _, ok := tt.delims.MatchBlock([]byte(tt.block)); ok != tt.blockMatch {
				t.Errorf("MatchBlock(%q) = %v, want %v", tt.block, ok, tt.blockMatch)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewDelimiters - Pattern compilation
// ---------------------------------------------------------------------------

func TestNewDelimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inline   string
		block    string
		triggers []byte
		wantErr  bool
	}{
		{"valid", `%%(.+?)%%`, `@@(.*)@@`, []byte{'%', '@'}, false},
		{"invalid inline regex", `(`, `@@(.*)@@`, []byte{'@'}, true},
		{"invalid block regex", `%(.+?)%`, `(`, []byte{'@'}, true},
		{"missing capture group", `%.+?%`, `@@.*@@`, []byte{'@'}, true},
		{"no triggers", `%(.+?)%`, `@@(.*)@@`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewDelimiters("custom", tt.inline, tt.block, tt.triggers, tt.triggers)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDelimiters() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDelimiters) {
				t.Errorf("error = %v, want ErrInvalidDelimiters", err)
			}
		})
	}
}

func TestMustDelimitersPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustDelimiters() did not panic on invalid pattern")
		}
	}()
	MustDelimiters("broken", `(`, `(`, []byte{'$'}, []byte{'$'})
}

func TestLookupDelimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   *Delimiters
		wantOK bool
	}{
		{"", DefaultDelimiters, true},
		{"all", DefaultDelimiters, true},
		{"dollar", DollarDelimiters, true},
		{"bracket", BracketDelimiters, true},
		{"latex", nil, false},
	}

	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := LookupDelimiters(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("LookupDelimiters(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if names := DelimiterNames(); len(names) != 3 {
		t.Errorf("DelimiterNames() = %v, want 3 names", names)
	}
}
