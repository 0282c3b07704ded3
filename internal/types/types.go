// Package types defines the structural type values of the Silt language
// and the conflict values that represent type errors. Types are immutable;
// all comparisons are structural and exact, with no subtyping and no
// numeric coercion.
package types

import (
	"fmt"
	"sort"
	"strings"

	set "github.com/hashicorp/go-set/v3"
)

// Type is the closed set of Silt type values. A Conflict is itself a valid
// Type so that entities depending on a conflicted entity become conflicted
// through ordinary rule evaluation.
type Type interface {
	fmt.Stringer
	isType()
}

// NumberKind identifies a fixed-width numeric type
type NumberKind int

const (
	U8 NumberKind = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
)

// String returns the surface rendering of the numeric kind
func (k NumberKind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "invalid"
	}
}

// Number is a fixed-width numeric type
type Number struct {
	Kind NumberKind
}

// Boolean is the boolean type
type Boolean struct{}

// Str is the string type
type Str struct{}

// Symbol is the type of a single symbol literal
type Symbol struct {
	Label string
}

// Tuple is a positional aggregate type
type Tuple struct {
	Fields []Type
}

// Record is a named aggregate type; field names are unique by construction
type Record struct {
	Fields map[string]Type
}

// Function is a function type with an ordered parameter list. Equality is
// structural and exact: ordered parameter list equality plus result equality.
type Function struct {
	Parameters []Type
	Result     Type
}

// Union is a tagged union of symbol alternatives, grown incrementally by
// the surface `|` operator. Membership is a set: order is irrelevant and
// duplicates collapse.
type Union struct {
	Alternatives *set.Set[string]
}

// NewUnion creates a union with the given symbol alternatives
func NewUnion(labels ...string) Union {
	s := set.New[string](len(labels))
	for _, l := range labels {
		s.Insert(l)
	}
	return Union{Alternatives: s}
}

// With returns a new union extended with the given symbol. Adding a symbol
// that is already a member yields an equal union.
func (u Union) With(sym Symbol) Union {
	s := u.Alternatives.Copy()
	s.Insert(sym.Label)
	return Union{Alternatives: s}
}

// Labels returns the union's alternatives in sorted order
func (u Union) Labels() []string {
	labels := u.Alternatives.Slice()
	sort.Strings(labels)
	return labels
}

// Any is the top/unknown type. It only ever appears as a placeholder inside
// conflict descriptions, never as the resolved type of an entity.
type Any struct{}

func (Number) isType()   {}
func (Boolean) isType()  {}
func (Str) isType()      {}
func (Symbol) isType()   {}
func (Tuple) isType()    {}
func (Record) isType()   {}
func (Function) isType() {}
func (Union) isType()    {}
func (Any) isType()      {}

// Bool returns the canonical boolean type
func Bool() Type {
	return Boolean{}
}

func (n Number) String() string {
	return n.Kind.String()
}

func (Boolean) String() string {
	return "bool"
}

func (Str) String() string {
	return "str"
}

func (s Symbol) String() string {
	return "sym:" + s.Label
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, f := range t.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (r Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(r.Fields[name].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (f Function) String() string {
	var sb strings.Builder
	sb.WriteByte('|')
	for i, p := range f.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteString("|:")
	sb.WriteString(f.Result.String())
	return sb.String()
}

func (u Union) String() string {
	labels := u.Labels()
	if len(labels) == 0 {
		return "sym:"
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = "sym:" + l
	}
	return strings.Join(parts, "|")
}

func (Any) String() string {
	return "any"
}

// Equal reports whether two types are structurally equal. Conflicts compare
// by their full diagnostic structure, including locations.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case Number:
		bt, ok := b.(Number)
		return ok && at.Kind == bt.Kind
	case Boolean:
		_, ok := b.(Boolean)
		return ok
	case Str:
		_, ok := b.(Str)
		return ok
	case Symbol:
		bt, ok := b.(Symbol)
		return ok && at.Label == bt.Label
	case Tuple:
		bt, ok := b.(Tuple)
		return ok && equalSlices(at.Fields, bt.Fields)
	case Record:
		bt, ok := b.(Record)
		if !ok || len(at.Fields) != len(bt.Fields) {
			return false
		}
		for name, ft := range at.Fields {
			other, ok := bt.Fields[name]
			if !ok || !Equal(ft, other) {
				return false
			}
		}
		return true
	case Function:
		bt, ok := b.(Function)
		return ok && equalSlices(at.Parameters, bt.Parameters) && Equal(at.Result, bt.Result)
	case Union:
		bt, ok := b.(Union)
		return ok && at.Alternatives.Equal(bt.Alternatives)
	case Any:
		_, ok := b.(Any)
		return ok
	case Conflict:
		bt, ok := b.(Conflict)
		return ok && conflictEqual(at, bt)
	default:
		return false
	}
}

func equalSlices(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsConflict reports whether t is a conflict value
func IsConflict(t Type) bool {
	_, ok := t.(Conflict)
	return ok
}
