// Package hir models the slice of a reactive function's High-level
// Intermediate Representation that the non-escaping scope pruner needs:
// identifiers, places, scopes, instructions and the minimal block/
// terminal tree to hold them. It is the "external collaborator"
// surface of the pass (HIR construction and reactive-scope formation
// are not this package's concern upstream of tests and the CLI
// driver) but a concrete, in-memory implementation is shipped here so
// the pass is runnable without a full upstream compiler.
package hir

import "fmt"

// IdentifierId is an opaque numeric handle naming an SSA-like temporary
// or named binding. Handles are minted upstream (by HIR construction);
// this package never manufactures one except in the fixture builder.
type IdentifierId uint64

// String renders the identifier for diagnostics.
func (id IdentifierId) String() string {
	return fmt.Sprintf("$%d", uint64(id))
}

// ScopeId is an opaque numeric handle naming a reactive scope.
type ScopeId uint64

// String renders the scope id for diagnostics.
func (id ScopeId) String() string {
	return fmt.Sprintf("@%d", uint64(id))
}

// InstructionId is an opaque numeric handle naming the position of an
// instruction or terminal within a reactive function; it is what
// getPlaceScope keys its lookups on.
type InstructionId uint64
