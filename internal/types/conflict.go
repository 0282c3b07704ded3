package types

import (
	"fmt"
	"strings"

	"github.com/silt-lang/silt/internal/position"
)

// ExpectedType describes what a typing rule required at a conflict site.
// It exists purely to make conflicts self-describing; it is rendered and
// compared but never solved.
type ExpectedType interface {
	fmt.Stringer
	isExpected()
}

// ExpectedSpecific requires one exact type
type ExpectedSpecific struct {
	Type Type
}

// ExpectedClass requires any type of a given scalar class
type ExpectedClass struct {
	Class ScalarClass
}

// ExpectedAnyOf requires any one of several expectations
type ExpectedAnyOf struct {
	Choices []ExpectedType
}

// ExpectedUnion requires any union type
type ExpectedUnion struct{}

// ExpectedSymbol requires any symbol type
type ExpectedSymbol struct{}

func (ExpectedSpecific) isExpected() {}
func (ExpectedClass) isExpected()    {}
func (ExpectedAnyOf) isExpected()    {}
func (ExpectedUnion) isExpected()    {}
func (ExpectedSymbol) isExpected()   {}

func (e ExpectedSpecific) String() string {
	return e.Type.String()
}

func (e ExpectedClass) String() string {
	return e.Class.String()
}

func (e ExpectedAnyOf) String() string {
	parts := make([]string, len(e.Choices))
	for i, c := range e.Choices {
		parts[i] = c.String()
	}
	return strings.Join(parts, " or ")
}

func (ExpectedUnion) String() string {
	return "(any union type)"
}

func (ExpectedSymbol) String() string {
	return "(any symbol type)"
}

// ExpectedEqual reports whether two expectations are structurally equal
func ExpectedEqual(a, b ExpectedType) bool {
	switch at := a.(type) {
	case ExpectedSpecific:
		bt, ok := b.(ExpectedSpecific)
		return ok && Equal(at.Type, bt.Type)
	case ExpectedClass:
		bt, ok := b.(ExpectedClass)
		return ok && at.Class == bt.Class
	case ExpectedAnyOf:
		bt, ok := b.(ExpectedAnyOf)
		if !ok || len(at.Choices) != len(bt.Choices) {
			return false
		}
		for i := range at.Choices {
			if !ExpectedEqual(at.Choices[i], bt.Choices[i]) {
				return false
			}
		}
		return true
	case ExpectedUnion:
		_, ok := b.(ExpectedUnion)
		return ok
	case ExpectedSymbol:
		_, ok := b.(ExpectedSymbol)
		return ok
	default:
		return false
	}
}

// AuxNote is a secondary source location attached to a conflict, with a
// label explaining its relevance (for example the other operand's type).
type AuxNote struct {
	Span  position.Span
	Label string
}

// Conflict is a first-class type value representing a detected type error.
// It carries enough structure to render a precise multi-span diagnostic
// without re-analyzing the program. A conflict is a final result: once an
// entity resolves to a conflict, the engine never re-derives it.
type Conflict struct {
	Expected ExpectedType
	Actual   Type
	Main     position.Span
	Aux      []AuxNote
}

func (Conflict) isType() {}

func (c Conflict) String() string {
	return c.Expected.String() + "!=" + c.Actual.String()
}

func conflictEqual(a, b Conflict) bool {
	if !ExpectedEqual(a.Expected, b.Expected) || !Equal(a.Actual, b.Actual) {
		return false
	}
	if a.Main != b.Main || len(a.Aux) != len(b.Aux) {
		return false
	}
	for i := range a.Aux {
		if a.Aux[i] != b.Aux[i] {
			return false
		}
	}
	return true
}
