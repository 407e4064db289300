// Package events defines the events workbench operations publish on the
// event bus. Start and finish events of one operation share the operation
// id carried by the context.
package events

import "time"

// OperationStart is emitted before a workbench operation runs.
type OperationStart struct {
	Operation string
	TypeName  string // empty for operations not bound to a type
}

// OperationFinish is emitted after a workbench operation returns.
type OperationFinish struct {
	Operation string
	TypeName  string
	Err       error
	Duration  time.Duration
}

// SchemaLoaded is emitted when a schema replaces the current one.
type SchemaLoaded struct {
	Source string // "introspection" or "sdl"
	Types  int
}

// SchemaCleared is emitted when the current schema is dropped.
type SchemaCleared struct{}

// CacheLoaded is emitted when a cache snapshot replaces the current one.
type CacheLoaded struct {
	Entries     int
	Fingerprint uint64
}
