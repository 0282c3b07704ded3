// Package codegen lowers finished Silt types to machine-level
// representations. It is strictly downstream of inference and consumes
// only final, conflict-free types.
package codegen

import (
	"fmt"
	"math"

	"github.com/silt-lang/silt/internal/types"
)

// AbiKind identifies a machine-level value representation
type AbiKind int

const (
	// AbiB1 is a single-bit boolean
	AbiB1 AbiKind = iota
	// AbiI8 through AbiI64 are integer registers of fixed width
	AbiI8
	AbiI16
	AbiI32
	AbiI64
	// AbiF32 and AbiF64 are floating point registers
	AbiF32
	AbiF64
	// AbiPtr is a target-width pointer; aggregates, strings and
	// functions are always passed by reference
	AbiPtr
)

// String returns a short rendering of the ABI kind
func (k AbiKind) String() string {
	switch k {
	case AbiB1:
		return "b1"
	case AbiI8:
		return "i8"
	case AbiI16:
		return "i16"
	case AbiI32:
		return "i32"
	case AbiI64:
		return "i64"
	case AbiF32:
		return "f32"
	case AbiF64:
		return "f64"
	case AbiPtr:
		return "ptr"
	default:
		return "invalid"
	}
}

// AbiType is the ABI-specific representation of one IR type
type AbiType struct {
	Kind AbiKind
}

// AbiSignature is the ABI-level shape of a function
type AbiSignature struct {
	Params  []AbiType
	Returns []AbiType
}

// FromType maps a finished IR type to its ABI representation. Conflict
// and placeholder types never reach codegen; passing one is an error.
func FromType(t types.Type) (AbiType, error) {
	switch tt := t.(type) {
	case types.Number:
		return fromNumberKind(tt.Kind), nil
	case types.Boolean:
		return AbiType{Kind: AbiB1}, nil
	case types.Str, types.Tuple, types.Record, types.Function:
		return AbiType{Kind: AbiPtr}, nil
	case types.Symbol:
		return AbiType{Kind: AbiI8}, nil
	case types.Union:
		return unionDiscriminant(tt)
	case types.Conflict:
		return AbiType{}, fmt.Errorf("cannot lower conflicted type %s", tt)
	case types.Any:
		return AbiType{}, fmt.Errorf("cannot lower placeholder type %s", tt)
	default:
		return AbiType{}, fmt.Errorf("cannot lower type %s", t)
	}
}

// FromFunction maps a function type to its ABI signature
func FromFunction(f types.Function) (AbiSignature, error) {
	sig := AbiSignature{Params: make([]AbiType, len(f.Parameters))}
	for i, p := range f.Parameters {
		at, err := FromType(p)
		if err != nil {
			return AbiSignature{}, err
		}
		sig.Params[i] = at
	}
	ret, err := FromType(f.Result)
	if err != nil {
		return AbiSignature{}, err
	}
	sig.Returns = []AbiType{ret}
	return sig, nil
}

// unionDiscriminant sizes a union's tag by its alternative count.
// Unions only store symbols for now.
func unionDiscriminant(u types.Union) (AbiType, error) {
	n := u.Alternatives.Size()
	switch {
	case n <= 2:
		return AbiType{Kind: AbiB1}, nil
	case n <= math.MaxUint8:
		return AbiType{Kind: AbiI8}, nil
	case n <= math.MaxUint16:
		return AbiType{Kind: AbiI16}, nil
	case n <= math.MaxUint32:
		return AbiType{Kind: AbiI32}, nil
	default:
		return AbiType{Kind: AbiI64}, nil
	}
}

func fromNumberKind(k types.NumberKind) AbiType {
	switch k {
	case types.U8, types.I8:
		return AbiType{Kind: AbiI8}
	case types.U16, types.I16:
		return AbiType{Kind: AbiI16}
	case types.U32, types.I32:
		return AbiType{Kind: AbiI32}
	case types.U64, types.I64:
		return AbiType{Kind: AbiI64}
	case types.F32:
		return AbiType{Kind: AbiF32}
	case types.F64:
		return AbiType{Kind: AbiF64}
	default:
		return AbiType{Kind: AbiPtr}
	}
}
