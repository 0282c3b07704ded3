package ir

import (
	"fmt"
	"strings"
	"testing"

	"github.com/silt-lang/silt/internal/types"
)

func TestWriteDOT(t *testing.T) {
	s := NewStore()
	one := s.New(Number{Kind: types.U32, Value: uint64(1)}, testSpan(1))
	two := s.New(Number{Kind: types.U32, Value: uint64(2)}, testSpan(1))
	sum := s.New(BiOp{Lhs: one, Operator: Add, Rhs: two}, testSpan(1))
	sig := s.New(Number{Kind: types.U32, Value: uint64(0)}, testSpan(1))
	closure := s.New(Closure{
		Statements: []Entity{sum},
		Signature:  sig,
		Result:     sum,
	}, testSpan(1))
	v := s.New(Variable{Name: "a", Initializer: closure}, testSpan(1))
	mod := s.New(Module{Definitions: map[string]Entity{"a": v}}, testSpan(1))
	s.SetScope(mod, "")
	s.SetType(one, types.Number{Kind: types.U32})

	var sb strings.Builder
	if err := WriteDOT(&sb, s); err != nil {
		t.Fatalf("WriteDOT failed: %v", err)
	}
	out := sb.String()

	// Every element-bearing entity shows up as a node.
	for _, e := range s.Entities() {
		if !strings.Contains(out, nodeName(e)) {
			t.Errorf("DOT output is missing node for entity %d", e)
		}
	}

	for _, want := range []string{
		"digraph ir {",
		"bi op +",
		"closure 0 params 0 captures",
		"variable a",
		"module 1 defs",
		"(root)",
		"u32",           // the committed type rendered on entity one
		"style=dotted",  // signature edge
		"style=dashed",  // statement edge
		"label=\"lhs\"", // operand edge labels
		"label=\"rhs\"",
		"label=\"def a\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output is missing %q:\n%s", want, out)
		}
	}
}

func nodeName(e Entity) string {
	return fmt.Sprintf("n%d", e)
}
