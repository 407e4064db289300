package introspection

import "fmt"

// MalformedSchemaError reports an introspection payload (or SDL document)
// that cannot produce a schema at all. Individual bad type entries never
// cause it.
type MalformedSchemaError struct {
	Reason string
	Err    error
}

func (e *MalformedSchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("introspection: malformed schema: %s: %v", e.Reason, e.Err)
	}
	return "introspection: malformed schema: " + e.Reason
}

func (e *MalformedSchemaError) Unwrap() error { return e.Err }

func malformed(reason string, err error) error {
	return &MalformedSchemaError{Reason: reason, Err: err}
}
