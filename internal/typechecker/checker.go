// Package typechecker implements type inference over the Silt entity
// graph. One pure typing rule per element kind derives a type from the
// types of referenced entities; two evaluation strategies drive the rules
// to completion. Type mismatches become first-class conflict values stored
// as the entity's type; only incomplete rule coverage, missing
// annotations and cyclic inputs fail the phase as a whole.
package typechecker

import (
	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/types"
)

// Config carries the options shared by both evaluation strategies
type Config struct {
	// VerifySignatures enables cross-checking each closure body's result
	// type against its declared signature type. Off by default.
	VerifySignatures bool
	// Observer receives structured evaluation events; nil means no events
	Observer Observer
	// Parallelism bounds concurrent rule attempts within a fixpoint
	// round; zero or negative means one goroutine per available CPU
	Parallelism int
}

func (c Config) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}

// ConflictRecord pairs an entity with the conflict it resolved to
type ConflictRecord struct {
	Entity   ir.Entity
	Conflict types.Conflict
}

// Conflicts returns, in entity order, the distinct conflicts recorded in
// the store. A conflict propagates unchanged to every dependent of the
// entity it originated on; each such value is reported once, anchored at
// the first entity that carries it.
func Conflicts(s *ir.Store) []ConflictRecord {
	var out []ConflictRecord
	for _, e := range s.Entities() {
		t, ok := s.Type(e)
		if !ok {
			continue
		}
		c, isConflict := t.(types.Conflict)
		if !isConflict {
			continue
		}
		seen := false
		for _, rec := range out {
			if types.Equal(rec.Conflict, c) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, ConflictRecord{Entity: e, Conflict: c})
		}
	}
	return out
}
