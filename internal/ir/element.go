// Package ir defines the entity-graph intermediate representation of the
// Silt compiler. Entities are opaque handles; their structure lives in
// parallel component maps owned by the Store. Inter-entity relationships
// are plain entity values resolved through the store, never direct
// references.
package ir

import (
	"github.com/silt-lang/silt/internal/types"
)

// Entity identifies one IR node. It has no behavior beyond identity;
// entities are totally ordered by allocation.
type Entity uint32

// InvalidEntity is the zero entity. Optional entity references (for
// example a parameter without a signature) hold InvalidEntity.
const InvalidEntity Entity = 0

// IsValid reports whether the entity refers to an allocated node
func (e Entity) IsValid() bool {
	return e != InvalidEntity
}

// Element is the structural payload of one entity. Elements are immutable
// once created by lowering.
type Element interface {
	isElement()
}

// Number is a numeric literal of a fixed-width kind
type Number struct {
	Kind  types.NumberKind
	Value interface{} // uint64, int64 or float64 depending on Kind
}

// String is a string literal
type String struct {
	Value string
}

// Symbol is a symbol literal
type Symbol struct {
	Label string
}

// Tuple is a positional aggregate of entities
type Tuple struct {
	Fields []Entity
}

// Record is a named aggregate of entities; field names are unique by
// construction
type Record struct {
	Fields map[string]Entity
}

// UnOp applies a unary operator to one operand
type UnOp struct {
	Operator UnOperator
	Operand  Entity
}

// BiOp applies a binary operator to two operands
type BiOp struct {
	Lhs      Entity
	Operator BiOperator
	Rhs      Entity
}

// Variable is a named binding; its type is its initializer's type
type Variable struct {
	Name        string
	Initializer Entity
}

// Select projects a named field out of a record entity
type Select struct {
	Record Entity
	Field  string
}

// Apply calls a function entity with ordered parameter entities
type Apply struct {
	Function   Entity
	Parameters []Entity
}

// Parameter declares a function parameter. If Signature is valid, the
// signature entity's type is authoritative; without one the parameter
// cannot be resolved by the inference engine.
type Parameter struct {
	Name      string
	Signature Entity
}

// Capture imports a closure free variable; its type passes through from
// the captured entity
type Capture struct {
	Name     string
	Captured Entity
}

// Closure is a function literal. The signature entity anchors the result
// type so that recursive calls never need the body's type to resolve.
type Closure struct {
	Captures   map[string]Entity
	Parameters []Entity
	Statements []Entity
	Signature  Entity
	Result     Entity
}

// Module is a scope's exported bindings, with unique names
type Module struct {
	Definitions map[string]Entity
}

func (Number) isElement()    {}
func (String) isElement()    {}
func (Symbol) isElement()    {}
func (Tuple) isElement()     {}
func (Record) isElement()    {}
func (UnOp) isElement()      {}
func (BiOp) isElement()      {}
func (Variable) isElement()  {}
func (Select) isElement()    {}
func (Apply) isElement()     {}
func (Parameter) isElement() {}
func (Capture) isElement()   {}
func (Closure) isElement()   {}
func (Module) isElement()    {}

// UnOperator identifies a unary operator
type UnOperator int

const (
	// Not is logical not
	Not UnOperator = iota
	// BNot is bit-wise not
	BNot
	// Cl0 counts leading zero bits
	Cl0
	// Cl1 counts leading one bits
	Cl1
	// Cls counts leading sign bits
	Cls
	// Ct0 counts trailing zero bits
	Ct0
	// Ct1 counts trailing one bits
	Ct1
	// C0 counts zero bits
	C0
	// C1 counts one bits
	C1
	// Sqrt is the square root
	Sqrt
)

// String returns the surface rendering of the operator
func (op UnOperator) String() string {
	switch op {
	case Not:
		return "!"
	case BNot:
		return "~!"
	case Cl0:
		return "#^0"
	case Cl1:
		return "#^1"
	case Cls:
		return "#^-"
	case Ct0:
		return "#$0"
	case Ct1:
		return "#$1"
	case C0:
		return "#0"
	case C1:
		return "#1"
	case Sqrt:
		return "^/"
	default:
		return "invalid"
	}
}

// BiOperator identifies a binary operator
type BiOperator int

const (
	// Eq is equal-to
	Eq BiOperator = iota
	// Ne is not-equal-to
	Ne
	// Lt is less-than
	Lt
	// Ge is greater-than-or-equal-to
	Ge
	// Gt is greater-than
	Gt
	// Le is less-than-or-equal-to
	Le
	// Cmp is three-way compare; its typing rule is not implemented
	Cmp
	// Add is addition
	Add
	// Sub is subtraction
	Sub
	// Mul is multiplication
	Mul
	// Div is division
	Div
	// Rem is remainder
	Rem
	// And is logical and
	And
	// BAnd is bit-wise and
	BAnd
	// Or is logical or, and union extension on union operands
	Or
	// BOr is bit-wise or
	BOr
	// Xor is logical xor
	Xor
	// BXor is bit-wise xor
	BXor
	// AndNot is logical and-not
	AndNot
	// BAndNot is bit-wise and-not
	BAndNot
	// OrNot is logical or-not
	OrNot
	// BOrNot is bit-wise or-not
	BOrNot
	// XorNot is logical xor-not
	XorNot
	// BXorNot is bit-wise xor-not
	BXorNot
	// RotL is rotate-left
	RotL
	// RotR is rotate-right
	RotR
	// ShL is shift-left
	ShL
	// ShR is shift-right
	ShR
)

// String returns the surface rendering of the operator
func (op BiOperator) String() string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Ge:
		return ">="
	case Gt:
		return ">"
	case Le:
		return "<="
	case Cmp:
		return "<=>"
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Rem:
		return "%"
	case And:
		return "&"
	case BAnd:
		return "~&"
	case Or:
		return "|"
	case BOr:
		return "~|"
	case Xor:
		return "^"
	case BXor:
		return "~^"
	case AndNot:
		return "&!"
	case BAndNot:
		return "~&!"
	case OrNot:
		return "|!"
	case BOrNot:
		return "~|!"
	case XorNot:
		return "^!"
	case BXorNot:
		return "~^!"
	case RotL:
		return "<-<"
	case RotR:
		return ">->"
	case ShL:
		return "<<"
	case ShR:
		return ">>"
	default:
		return "invalid"
	}
}
