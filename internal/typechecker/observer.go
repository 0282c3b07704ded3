package typechecker

import (
	"log"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/types"
)

// Observer receives structured events from an evaluation strategy. It is
// injected through Config; the engine keeps no global observability state.
type Observer interface {
	// RoundStarted fires before a fixpoint round over the given number
	// of still-untyped entities
	RoundStarted(round, pending int)
	// RoundFinished fires after a fixpoint round committed its results
	RoundFinished(round, committed int)
	// TypeCommitted fires when an entity's type is recorded
	TypeCommitted(e ir.Entity, t types.Type)
	// ConflictDetected fires when the recorded type is a conflict
	ConflictDetected(e ir.Entity, c types.Conflict)
}

// NopObserver discards all events
type NopObserver struct{}

func (NopObserver) RoundStarted(int, int)                     {}
func (NopObserver) RoundFinished(int, int)                    {}
func (NopObserver) TypeCommitted(ir.Entity, types.Type)       {}
func (NopObserver) ConflictDetected(ir.Entity, types.Conflict) {}

// LogObserver writes events to a standard logger
type LogObserver struct {
	Logger *log.Logger
}

func (o LogObserver) RoundStarted(round, pending int) {
	o.Logger.Printf("inference round %d: %d entities pending", round, pending)
}

func (o LogObserver) RoundFinished(round, committed int) {
	o.Logger.Printf("inference round %d: committed %d types", round, committed)
}

func (o LogObserver) TypeCommitted(e ir.Entity, t types.Type) {
	o.Logger.Printf("entity %d: %s", e, t)
}

func (o LogObserver) ConflictDetected(e ir.Entity, c types.Conflict) {
	o.Logger.Printf("entity %d: type conflict at %s: expected %s, got %s", e, c.Main, c.Expected, c.Actual)
}
