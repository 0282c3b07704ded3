package typechecker

import (
	"fmt"
	"strings"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/position"
)

// UnsupportedOperatorError reports an operator the engine has no typing
// rule for. It indicates incomplete rule coverage, not an input error, so
// it fails the inference phase as a whole instead of becoming a per-entity
// conflict.
type UnsupportedOperatorError struct {
	Operator ir.BiOperator
	Span     position.Span
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("%s: no typing rule for operator %s", e.Span, e.Operator)
}

// CycleError reports a cyclic dependency detected by the pull strategy.
// The path lists the entities on the cycle, ending with the entity that
// closed it.
type CycleError struct {
	Path []ir.Entity
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, ent := range e.Path {
		parts[i] = fmt.Sprintf("%d", ent)
	}
	return fmt.Sprintf("cyclic type dependency through entities %s", strings.Join(parts, " -> "))
}

// UnresolvedError reports entities left without a type after inference
// finished, typically parameters or closures missing an explicit
// signature annotation.
type UnresolvedError struct {
	Entities []ir.Entity
}

func (e *UnresolvedError) Error() string {
	if len(e.Entities) == 1 {
		return fmt.Sprintf("entity %d could not be resolved; an explicit type annotation is required", e.Entities[0])
	}
	return fmt.Sprintf("%d entities could not be resolved; explicit type annotations are required", len(e.Entities))
}
