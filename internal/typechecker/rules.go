package typechecker

import (
	"fmt"
	"sort"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/types"
)

// resolver gives typing rules access to the possibly-not-yet-available
// types of referenced entities. The fixpoint strategy reads the committed
// snapshot and reports missing types as pending; the pull strategy
// resolves dependencies recursively and reports hard failures as errors.
type resolver interface {
	typeOf(e ir.Entity) (types.Type, bool, error)
}

// elementType applies the typing rule for one element. It returns the
// resolved type (which may be a conflict value), or (nil, nil) when a
// dependency is still missing, or an error for conditions the engine
// cannot recover from per entity.
//
// Conflicts on dependencies propagate: an entity whose dependency
// resolved to a conflict resolves to that same conflict.
func elementType(s *ir.Store, cfg Config, res resolver, self ir.Entity, el ir.Element) (types.Type, error) {
	switch e := el.(type) {
	case ir.Number:
		return types.Number{Kind: e.Kind}, nil
	case ir.String:
		return types.Str{}, nil
	case ir.Symbol:
		return types.Symbol{Label: e.Label}, nil
	case ir.Tuple:
		return tupleType(res, e)
	case ir.Record:
		return recordType(res, e)
	case ir.UnOp:
		return unOpType(s, res, e)
	case ir.BiOp:
		return biOpType(s, res, self, e)
	case ir.Variable:
		return passthroughType(res, e.Initializer)
	case ir.Select:
		return selectType(s, res, e)
	case ir.Apply:
		return applyType(s, res, e)
	case ir.Parameter:
		return parameterType(res, e)
	case ir.Capture:
		return passthroughType(res, e.Captured)
	case ir.Closure:
		return closureType(s, cfg, res, e)
	case ir.Module:
		return moduleType(res, e)
	default:
		return nil, fmt.Errorf("entity %d: no typing rule for element %T", self, el)
	}
}

func passthroughType(res resolver, dep ir.Entity) (types.Type, error) {
	t, ok, err := res.typeOf(dep)
	if err != nil || !ok {
		return nil, err
	}
	return t, nil
}

func tupleType(res resolver, e ir.Tuple) (types.Type, error) {
	fields, done, err := resolveAll(res, e.Fields)
	if err != nil || !done {
		return nil, err
	}
	if c, ok := firstConflict(fields); ok {
		return c, nil
	}
	return types.Tuple{Fields: fields}, nil
}

func recordType(res resolver, e ir.Record) (types.Type, error) {
	fields := make(map[string]types.Type, len(e.Fields))
	for name, fe := range e.Fields {
		t, ok, err := res.typeOf(fe)
		if err != nil || !ok {
			return nil, err
		}
		if types.IsConflict(t) {
			return t, nil
		}
		fields[name] = t
	}
	return types.Record{Fields: fields}, nil
}

func unOpType(s *ir.Store, res resolver, e ir.UnOp) (types.Type, error) {
	t, ok, err := res.typeOf(e.Operand)
	if err != nil || !ok {
		return nil, err
	}
	if types.IsConflict(t) {
		return t, nil
	}

	switch e.Operator {
	case ir.Not:
		if types.Equal(t, types.Bool()) {
			return types.Bool(), nil
		}
		return types.Conflict{
			Expected: types.ExpectedSpecific{Type: types.Bool()},
			Actual:   t,
			Main:     s.Location(e.Operand),
		}, nil
	case ir.BNot:
		return ifIntegralThen(s, e.Operand, t, t)
	case ir.Cl0, ir.Cl1, ir.Cls, ir.Ct0, ir.Ct1, ir.C0, ir.C1:
		return ifIntegralThen(s, e.Operand, t, types.Number{Kind: types.U32})
	case ir.Sqrt:
		if types.ClassOf(t) == types.ClassFractional {
			return t, nil
		}
		return types.Conflict{
			Expected: types.ExpectedClass{Class: types.ClassFractional},
			Actual:   t,
			Main:     s.Location(e.Operand),
		}, nil
	default:
		return nil, fmt.Errorf("no typing rule for unary operator %s", e.Operator)
	}
}

func biOpType(s *ir.Store, res resolver, self ir.Entity, e ir.BiOp) (types.Type, error) {
	lhs, ok, err := res.typeOf(e.Lhs)
	if err != nil || !ok {
		return nil, err
	}
	rhs, ok, err := res.typeOf(e.Rhs)
	if err != nil || !ok {
		return nil, err
	}
	if types.IsConflict(lhs) {
		return lhs, nil
	}
	if types.IsConflict(rhs) {
		return rhs, nil
	}

	switch e.Operator {
	case ir.Eq, ir.Ne, ir.Lt, ir.Ge, ir.Gt, ir.Le:
		return ifEqThen(s, e.Lhs, lhs, e.Rhs, rhs, types.Bool()), nil
	case ir.Cmp:
		return nil, &UnsupportedOperatorError{Operator: ir.Cmp, Span: s.Location(self)}
	case ir.Add, ir.Sub, ir.Mul, ir.Div, ir.Rem,
		ir.BAnd, ir.BOr, ir.BXor, ir.BAndNot, ir.BOrNot, ir.BXorNot:
		return ifEqThen(s, e.Lhs, lhs, e.Rhs, rhs, lhs), nil
	case ir.Or:
		return orOpType(s, e.Lhs, lhs, e.Rhs, rhs), nil
	case ir.And, ir.Xor, ir.AndNot, ir.OrNot, ir.XorNot:
		return boolOpType(s, e.Lhs, lhs, e.Rhs, rhs), nil
	case ir.RotL, ir.RotR, ir.ShL, ir.ShR:
		return shiftOpType(s, e.Lhs, lhs, e.Rhs, rhs), nil
	default:
		return nil, fmt.Errorf("no typing rule for binary operator %s", e.Operator)
	}
}

// ifEqThen requires both operand types to be equal and yields result. The
// conflict carries the right operand as the actual type and points back
// at the left operand through an aux note.
func ifEqThen(s *ir.Store, lhsEnt ir.Entity, lhs types.Type, rhsEnt ir.Entity, rhs, result types.Type) types.Type {
	if types.Equal(lhs, rhs) {
		return result
	}
	return types.Conflict{
		Expected: types.ExpectedSpecific{Type: lhs},
		Actual:   rhs,
		Main:     s.Location(rhsEnt),
		Aux: []types.AuxNote{{
			Span:  s.Location(lhsEnt),
			Label: fmt.Sprintf("other operand has type `%s`", lhs),
		}},
	}
}

func boolOpType(s *ir.Store, lhsEnt ir.Entity, lhs types.Type, rhsEnt ir.Entity, rhs types.Type) types.Type {
	boolTy := types.Bool()
	if !types.Equal(lhs, boolTy) {
		return types.Conflict{
			Expected: types.ExpectedSpecific{Type: boolTy},
			Actual:   lhs,
			Main:     s.Location(lhsEnt),
			Aux: []types.AuxNote{{
				Span:  s.Location(rhsEnt),
				Label: fmt.Sprintf("other operand has type `%s`", rhs),
			}},
		}
	}
	if !types.Equal(rhs, boolTy) {
		return types.Conflict{
			Expected: types.ExpectedSpecific{Type: boolTy},
			Actual:   rhs,
			Main:     s.Location(rhsEnt),
			Aux: []types.AuxNote{{
				Span:  s.Location(lhsEnt),
				Label: fmt.Sprintf("other operand has type `%s`", lhs),
			}},
		}
	}
	return boolTy
}

// orOpType types the `|` operator: union extension when the left operand
// is a union, logical or when it is a boolean, a conflict otherwise.
func orOpType(s *ir.Store, lhsEnt ir.Entity, lhs types.Type, rhsEnt ir.Entity, rhs types.Type) types.Type {
	if u, ok := lhs.(types.Union); ok {
		if sym, ok := rhs.(types.Symbol); ok {
			return u.With(sym)
		}
		return types.Conflict{
			Expected: types.ExpectedSymbol{},
			Actual:   rhs,
			Main:     s.Location(rhsEnt),
			Aux: []types.AuxNote{{
				Span:  s.Location(lhsEnt),
				Label: fmt.Sprintf("other operand has type `%s`", lhs),
			}},
		}
	}
	if types.Equal(lhs, types.Bool()) {
		return boolOpType(s, lhsEnt, lhs, rhsEnt, rhs)
	}
	return types.Conflict{
		Expected: types.ExpectedAnyOf{Choices: []types.ExpectedType{
			types.ExpectedSpecific{Type: types.Bool()},
			types.ExpectedUnion{},
		}},
		Actual: lhs,
		Main:   s.Location(lhsEnt),
		Aux: []types.AuxNote{{
			Span:  s.Location(rhsEnt),
			Label: fmt.Sprintf("other operand has type `%s`", rhs),
		}},
	}
}

// shiftOpType types the rotate and shift operators: the left operand must
// be integral, the shift amount must be exactly u32, and the result keeps
// the left operand's type.
func shiftOpType(s *ir.Store, lhsEnt ir.Entity, lhs types.Type, rhsEnt ir.Entity, rhs types.Type) types.Type {
	if !types.ClassOf(lhs).IsIntegral() {
		return types.Conflict{
			Expected: types.ExpectedClass{Class: types.ClassIntegralAny},
			Actual:   lhs,
			Main:     s.Location(lhsEnt),
			Aux: []types.AuxNote{{
				Span:  s.Location(rhsEnt),
				Label: fmt.Sprintf("other operand has type `%s`", rhs),
			}},
		}
	}
	amount := types.Number{Kind: types.U32}
	if !types.Equal(rhs, amount) {
		return types.Conflict{
			Expected: types.ExpectedSpecific{Type: amount},
			Actual:   rhs,
			Main:     s.Location(rhsEnt),
			Aux: []types.AuxNote{{
				Span:  s.Location(lhsEnt),
				Label: fmt.Sprintf("other operand has type `%s`", lhs),
			}},
		}
	}
	return lhs
}

func ifIntegralThen(s *ir.Store, operand ir.Entity, t, result types.Type) (types.Type, error) {
	if types.ClassOf(t).IsIntegral() {
		return result, nil
	}
	return types.Conflict{
		Expected: types.ExpectedClass{Class: types.ClassIntegralAny},
		Actual:   t,
		Main:     s.Location(operand),
	}, nil
}

func selectType(s *ir.Store, res resolver, e ir.Select) (types.Type, error) {
	recordTy, ok, err := res.typeOf(e.Record)
	if err != nil || !ok {
		return nil, err
	}
	if types.IsConflict(recordTy) {
		return recordTy, nil
	}

	if rec, isRecord := recordTy.(types.Record); isRecord {
		if t, ok := rec.Fields[e.Field]; ok {
			return t, nil
		}
	}
	// Same expected shape whether the record is missing the field or the
	// operand is not a record at all.
	return types.Conflict{
		Expected: types.ExpectedSpecific{Type: types.Record{
			Fields: map[string]types.Type{e.Field: types.Any{}},
		}},
		Actual: recordTy,
		Main:   s.Location(e.Record),
	}, nil
}

func applyType(s *ir.Store, res resolver, e ir.Apply) (types.Type, error) {
	fnTy, ok, err := res.typeOf(e.Function)
	if err != nil || !ok {
		return nil, err
	}
	if types.IsConflict(fnTy) {
		return fnTy, nil
	}

	fn, isFn := fnTy.(types.Function)
	if !isFn {
		return types.Conflict{
			Expected: types.ExpectedSpecific{Type: types.Function{
				Parameters: []types.Type{types.Any{}},
				Result:     types.Any{},
			}},
			Actual: fnTy,
			Main:   s.Location(e.Function),
		}, nil
	}

	actuals, done, err := resolveAll(res, e.Parameters)
	if err != nil || !done {
		return nil, err
	}
	if c, ok := firstConflict(actuals); ok {
		return c, nil
	}

	if len(actuals) == len(fn.Parameters) {
		equal := true
		for i := range actuals {
			if !types.Equal(actuals[i], fn.Parameters[i]) {
				equal = false
				break
			}
		}
		if equal {
			return fn.Result, nil
		}
	}
	// The expected shape is reconstructed from the actual argument types so
	// the diagnostic names what the call site provided.
	return types.Conflict{
		Expected: types.ExpectedSpecific{Type: types.Function{
			Parameters: actuals,
			Result:     types.Any{},
		}},
		Actual: fnTy,
		Main:   s.Location(e.Function),
	}, nil
}

// parameterType resolves a parameter from its declared signature entity.
// A parameter without a signature stays pending: parameter types are
// never inferred from call sites.
func parameterType(res resolver, e ir.Parameter) (types.Type, error) {
	if !e.Signature.IsValid() {
		return nil, nil
	}
	return passthroughType(res, e.Signature)
}

func closureType(s *ir.Store, cfg Config, res resolver, e ir.Closure) (types.Type, error) {
	// The signature entity anchors the result type; without one the
	// closure stays pending.
	if !e.Signature.IsValid() {
		return nil, nil
	}
	sigTy, ok, err := res.typeOf(e.Signature)
	if err != nil || !ok {
		return nil, err
	}
	if types.IsConflict(sigTy) {
		return sigTy, nil
	}

	params, done, err := resolveAll(res, e.Parameters)
	if err != nil || !done {
		return nil, err
	}
	if c, ok := firstConflict(params); ok {
		return c, nil
	}

	if cfg.VerifySignatures {
		resultTy, ok, err := res.typeOf(e.Result)
		if err != nil || !ok {
			return nil, err
		}
		if types.IsConflict(resultTy) {
			return resultTy, nil
		}
		if !types.Equal(sigTy, resultTy) {
			return types.Conflict{
				Expected: types.ExpectedSpecific{Type: sigTy},
				Actual:   resultTy,
				Main:     s.Location(e.Result),
				Aux: []types.AuxNote{{
					Span:  s.Location(e.Signature),
					Label: fmt.Sprintf("declared return type is `%s`", sigTy),
				}},
			}, nil
		}
	}

	return types.Function{Parameters: params, Result: sigTy}, nil
}

func moduleType(res resolver, e ir.Module) (types.Type, error) {
	fields := make(map[string]types.Type, len(e.Definitions))
	for _, name := range sortedDefNames(e.Definitions) {
		t, ok, err := res.typeOf(e.Definitions[name])
		if err != nil || !ok {
			return nil, err
		}
		if types.IsConflict(t) {
			return t, nil
		}
		fields[name] = t
	}
	return types.Record{Fields: fields}, nil
}

func resolveAll(res resolver, deps []ir.Entity) ([]types.Type, bool, error) {
	out := make([]types.Type, len(deps))
	for i, dep := range deps {
		t, ok, err := res.typeOf(dep)
		if err != nil || !ok {
			return nil, false, err
		}
		out[i] = t
	}
	return out, true, nil
}

func firstConflict(ts []types.Type) (types.Type, bool) {
	for _, t := range ts {
		if types.IsConflict(t) {
			return t, true
		}
	}
	return nil, false
}

func sortedDefNames(m map[string]ir.Entity) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
