// Package change implements the change algebra: a closed set of
// roughly thirty Change variants, each able to apply itself to an in-memory
// snapshot, render itself as PostgreSQL DDL, and compute its own inverse
// given a witness snapshot of the state it will be applied to.
package change

import "github.com/podo/podo/internal/snapshot"

// Change is implemented by every variant in the closed set below. Dispatch
// everywhere is a compile-time type switch, never a runtime registry.
type Change interface {
	// Apply mutates db to reflect this change, or returns a snapshot.Error
	// if the change's preconditions (object exists/doesn't exist) fail.
	Apply(db *snapshot.Database) error

	// Render produces the PostgreSQL DDL statement for this change.
	Render() string

	// Invert computes the Change that undoes this one. witness is the
	// snapshot state immediately before this change was applied; Alter/Drop
	// variants need it to recover the prior definition.
	Invert(witness *snapshot.Database) (Change, error)

	// Kind is the stable tag used for serialization ({type: Kind, change: ...}).
	Kind() string
}

// InvalidReferenceError is returned by Apply when a change's declared
// cross-reference (e.g. a foreign key's target schema) does not resolve
// against the snapshot it is applied to.
type InvalidReferenceError struct {
	Change string
	Detail string
}

func (e *InvalidReferenceError) Error() string {
	return e.Change + ": " + e.Detail
}
