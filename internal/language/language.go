package language

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	// ErrNotSingleFragment indicates a document that is not exactly one fragment definition.
	ErrNotSingleFragment = errors.New("language: document must contain exactly one fragment and no operations")
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFragment parses a document holding a single fragment definition,
// which is the shape cache writes expect.
func ParseFragment(source string) (*FragmentDefinition, error) {
	doc, err := ParseQuery(source)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	if len(doc.Operations) != 0 || len(doc.Fragments) != 1 {
		return nil, ErrNotSingleFragment
	}
	return doc.Fragments[0], nil
}

// SelectionPaths flattens a selection set into dotted field paths in
// document order. Inline fragments contribute an "on Type" segment.
func SelectionPaths(set SelectionSet) []string {
	var out []string
	var walk func(prefix string, set SelectionSet)
	walk = func(prefix string, set SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *Field:
				path := prefix + s.Name
				out = append(out, path)
				walk(path+".", s.SelectionSet)
			case *InlineFragment:
				walk(prefix+"on "+s.TypeCondition+".", s.SelectionSet)
			case *FragmentSpread:
				out = append(out, prefix+"..."+s.Name)
			}
		}
	}
	walk("", set)
	return out
}
