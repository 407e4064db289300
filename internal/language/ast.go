package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type (
	QueryDocument      = ast.QueryDocument
	SelectionSet       = ast.SelectionSet
	Selection          = ast.Selection
	Field              = ast.Field
	InlineFragment     = ast.InlineFragment
	FragmentDefinition = ast.FragmentDefinition
	FragmentSpread     = ast.FragmentSpread
	Position           = ast.Position
	Error              = gqlerror.Error
)
