package fragment

import (
	"errors"

	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

var ErrMissingID = errors.New("fragment: cache id is required for a write")

// WriteData returns the data written alongside a fragment: __typename
// first, then every member of tree in order. A __typename already in tree
// wins over typeName.
func WriteData(tree *value.Object, typeName string) *value.Object {
	data := value.NewObject().Set(typenameField, typeName)
	tree.Range(func(k string, v any) bool {
		data.Set(k, value.Clone(v))
		return true
	})
	return data
}

// WritePayload is what the cache-write layer needs to apply an edit.
type WritePayload struct {
	ID           string        `json:"cacheId"`
	TypeName     string        `json:"typeName"`
	FragmentName string        `json:"fragmentName"`
	Fragment     string        `json:"fragmentString"`
	Data         *value.Object `json:"data"`
}

// NewWritePayload builds the fragment for tree and pairs it with the data
// to write under id.
func NewWritePayload(id, typeName string, tree *value.Object, b *Builder) (*WritePayload, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	doc, err := b.Build(typeName, tree)
	if err != nil {
		return nil, err
	}
	return &WritePayload{
		ID:           id,
		TypeName:     typeName,
		FragmentName: doc.Name,
		Fragment:     doc.Text,
		Data:         WriteData(tree, typeName),
	}, nil
}
