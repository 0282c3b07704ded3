package typechecker

import (
	"testing"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/position"
	"github.com/silt-lang/silt/internal/types"
)

// sp builds a distinct one-line span for test entities
func sp(line, col, length int) position.Span {
	return position.Span{
		Start: position.Position{Filename: "test.silt", Line: line, Column: col, Offset: line*100 + col},
		End:   position.Position{Filename: "test.silt", Line: line, Column: col + length, Offset: line*100 + col + length},
	}
}

// graph is a small builder over the entity store for tests
type graph struct {
	s    *ir.Store
	line int
}

func newGraph() *graph {
	return &graph{s: ir.NewStore()}
}

func (g *graph) add(el ir.Element) ir.Entity {
	g.line++
	return g.s.New(el, sp(g.line, 1, 4))
}

func (g *graph) num(kind types.NumberKind, value uint64) ir.Entity {
	return g.add(ir.Number{Kind: kind, Value: value})
}

func (g *graph) u32(value uint64) ir.Entity {
	return g.num(types.U32, value)
}

func (g *graph) f32() ir.Entity {
	return g.add(ir.Number{Kind: types.F32, Value: float64(1)})
}

func (g *graph) f64() ir.Entity {
	return g.add(ir.Number{Kind: types.F64, Value: float64(2)})
}

func (g *graph) boolean() ir.Entity {
	// There is no boolean literal element; a comparison of two equal
	// numbers is the canonical way to obtain a boolean-typed entity.
	return g.add(ir.BiOp{Lhs: g.u32(0), Operator: ir.Eq, Rhs: g.u32(0)})
}

func (g *graph) symbol(label string) ir.Entity {
	return g.add(ir.Symbol{Label: label})
}

func (g *graph) union(labels ...string) ir.Entity {
	// Unions are built by chained `|` over symbols, so a union-typed
	// entity needs at least two symbols.
	if len(labels) < 2 {
		panic("union helper needs at least two labels")
	}
	acc := g.add(ir.BiOp{Lhs: g.symbol(labels[0]), Operator: ir.Or, Rhs: g.symbol(labels[1])})
	for _, l := range labels[2:] {
		acc = g.add(ir.BiOp{Lhs: acc, Operator: ir.Or, Rhs: g.symbol(l)})
	}
	return acc
}

func (g *graph) biOp(lhs ir.Entity, op ir.BiOperator, rhs ir.Entity) ir.Entity {
	return g.add(ir.BiOp{Lhs: lhs, Operator: op, Rhs: rhs})
}

func (g *graph) unOp(op ir.UnOperator, operand ir.Entity) ir.Entity {
	return g.add(ir.UnOp{Operator: op, Operand: operand})
}

// checkAll runs the fixpoint strategy and fails the test on phase errors
func checkAll(t *testing.T, g *graph) {
	t.Helper()
	if err := NewFixpoint(Config{}).Check(g.s); err != nil {
		t.Fatalf("fixpoint check failed: %v", err)
	}
}

// typeOf fails the test if the entity has no committed type
func typeOf(t *testing.T, g *graph, e ir.Entity) types.Type {
	t.Helper()
	ty, ok := g.s.Type(e)
	if !ok {
		t.Fatalf("entity %d has no type", e)
	}
	return ty
}

// conflictOf fails the test if the entity's type is not a conflict
func conflictOf(t *testing.T, g *graph, e ir.Entity) types.Conflict {
	t.Helper()
	ty := typeOf(t, g, e)
	c, ok := ty.(types.Conflict)
	if !ok {
		t.Fatalf("entity %d resolved to %s, want a conflict", e, ty)
	}
	return c
}

// wantType asserts the entity resolved to exactly the given type
func wantType(t *testing.T, g *graph, e ir.Entity, want types.Type) {
	t.Helper()
	got := typeOf(t, g, e)
	if !types.Equal(got, want) {
		t.Errorf("entity %d resolved to %s, want %s", e, got, want)
	}
}

// sameUnion asserts the entity resolved to a union with exactly the
// given alternatives
func sameUnion(t *testing.T, g *graph, e ir.Entity, labels ...string) {
	t.Helper()
	got := typeOf(t, g, e)
	if !types.Equal(got, types.NewUnion(labels...)) {
		t.Errorf("entity %d resolved to %s, want union of %v", e, got, labels)
	}
}
