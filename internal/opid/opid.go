// Package opid tags contexts with an operation id.
package opid

import (
	"context"

	"github.com/google/uuid"
)

// key is the context key for the operation ID.
type key struct{}

// NewContext returns a copy of parent with a new random operation ID
// stored. It also returns the generated ID.
func NewContext(parent context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the operation ID from ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
