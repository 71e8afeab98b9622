package pipeline

import (
	"strconv"

	"github.com/shurcooL/sanitized_anchor_name"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// anchorIDs generates GitHub-style heading IDs ("Hello, World!" becomes
// "hello-world"), suffixing duplicates with -1, -2, ...
// One instance per document: it is not safe for concurrent use.
type anchorIDs struct {
	seen map[string]bool
}

var _ parser.IDs = (*anchorIDs)(nil)

func newAnchorIDs() *anchorIDs {
	return &anchorIDs{seen: make(map[string]bool)}
}

// Generate implements parser.IDs.
func (s *anchorIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := sanitized_anchor_name.Create(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}

	id := base
	for i := 1; s.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.seen[id] = true
	return []byte(id)
}

// Put implements parser.IDs.
func (s *anchorIDs) Put(value []byte) {
	s.seen[string(value)] = true
}
