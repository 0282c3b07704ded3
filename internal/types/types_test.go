package types

import (
	"testing"
)

func TestTypeEquality(t *testing.T) {
	u32 := Number{Kind: U32}
	i32 := Number{Kind: I32}

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"SameNumberKind", u32, Number{Kind: U32}, true},
		{"DifferentNumberKind", u32, i32, false},
		{"NumberVsBoolean", u32, Boolean{}, false},
		{"Booleans", Boolean{}, Boolean{}, true},
		{"Strings", Str{}, Str{}, true},
		{"SameSymbol", Symbol{Label: "ok"}, Symbol{Label: "ok"}, true},
		{"DifferentSymbol", Symbol{Label: "ok"}, Symbol{Label: "err"}, false},
		{"SameTuple", Tuple{Fields: []Type{u32, Boolean{}}}, Tuple{Fields: []Type{u32, Boolean{}}}, true},
		{"TupleOrderMatters", Tuple{Fields: []Type{u32, Boolean{}}}, Tuple{Fields: []Type{Boolean{}, u32}}, false},
		{"TupleLengthMatters", Tuple{Fields: []Type{u32}}, Tuple{Fields: []Type{u32, u32}}, false},
		{
			"SameRecord",
			Record{Fields: map[string]Type{"x": u32, "y": i32}},
			Record{Fields: map[string]Type{"y": i32, "x": u32}},
			true,
		},
		{
			"RecordFieldTypeDiffers",
			Record{Fields: map[string]Type{"x": u32}},
			Record{Fields: map[string]Type{"x": i32}},
			false,
		},
		{
			"RecordFieldNameDiffers",
			Record{Fields: map[string]Type{"x": u32}},
			Record{Fields: map[string]Type{"z": u32}},
			false,
		},
		{
			"SameFunction",
			Function{Parameters: []Type{u32}, Result: u32},
			Function{Parameters: []Type{u32}, Result: u32},
			true,
		},
		{
			"FunctionParameterDiffers",
			Function{Parameters: []Type{u32}, Result: u32},
			Function{Parameters: []Type{i32}, Result: u32},
			false,
		},
		{
			"FunctionResultDiffers",
			Function{Parameters: []Type{u32}, Result: u32},
			Function{Parameters: []Type{u32}, Result: i32},
			false,
		},
		{"SameUnion", NewUnion("a", "b"), NewUnion("b", "a"), true},
		{"DifferentUnion", NewUnion("a", "b"), NewUnion("a", "c"), false},
		{"Any", Any{}, Any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUnionWith(t *testing.T) {
	u := NewUnion("a", "b")

	extended := u.With(Symbol{Label: "c"})
	if got, want := len(extended.Labels()), 3; got != want {
		t.Fatalf("extended union has %d members, want %d", got, want)
	}
	if !Equal(extended, NewUnion("a", "b", "c")) {
		t.Errorf("extended union = %s, want sym:a|sym:b|sym:c", extended)
	}

	// Adding an existing member must not grow the set.
	again := extended.With(Symbol{Label: "c"})
	if !Equal(again, extended) {
		t.Errorf("duplicate extension changed the union: %s", again)
	}

	// The original union is unchanged.
	if !Equal(u, NewUnion("a", "b")) {
		t.Errorf("With mutated the receiver: %s", u)
	}
}

func TestTypeString(t *testing.T) {
	u32 := Number{Kind: U32}

	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"Number", u32, "u32"},
		{"Float", Number{Kind: F64}, "f64"},
		{"Boolean", Boolean{}, "bool"},
		{"String", Str{}, "str"},
		{"Symbol", Symbol{Label: "ok"}, "sym:ok"},
		{"EmptyTuple", Tuple{}, "()"},
		{"Tuple", Tuple{Fields: []Type{u32, Boolean{}}}, "(u32,bool)"},
		{"Record", Record{Fields: map[string]Type{"y": Boolean{}, "x": u32}}, "{x:u32,y:bool}"},
		{"NullaryFunction", Function{Result: u32}, "||:u32"},
		{"Function", Function{Parameters: []Type{u32, u32}, Result: Boolean{}}, "|u32,u32|:bool"},
		{"Union", NewUnion("b", "a"), "sym:a|sym:b"},
		{"Any", Any{}, "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want ScalarClass
	}{
		{"U8", Number{Kind: U8}, ClassIntegralUnsigned},
		{"U64", Number{Kind: U64}, ClassIntegralUnsigned},
		{"I8", Number{Kind: I8}, ClassIntegralSigned},
		{"I64", Number{Kind: I64}, ClassIntegralSigned},
		{"F32", Number{Kind: F32}, ClassFractional},
		{"F64", Number{Kind: F64}, ClassFractional},
		{"Boolean", Boolean{}, ClassBoolean},
		{"EmptyTuple", Tuple{}, ClassVoid},
		{"Tuple", Tuple{Fields: []Type{Boolean{}}}, ClassUndefined},
		{"String", Str{}, ClassUndefined},
		{"Record", Record{Fields: map[string]Type{}}, ClassUndefined},
		{"Function", Function{Result: Boolean{}}, ClassUndefined},
		{"Union", NewUnion("a"), ClassUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.typ); got != tt.want {
				t.Errorf("ClassOf(%s) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestScalarClassIntegral(t *testing.T) {
	integral := []ScalarClass{ClassIntegralSigned, ClassIntegralUnsigned, ClassIntegralAny}
	for _, c := range integral {
		if !c.IsIntegral() {
			t.Errorf("%v should be integral", c)
		}
	}
	other := []ScalarClass{ClassVoid, ClassBoolean, ClassFractional, ClassComplex, ClassUndefined}
	for _, c := range other {
		if c.IsIntegral() {
			t.Errorf("%v should not be integral", c)
		}
	}
}

func TestExpectedTypeString(t *testing.T) {
	tests := []struct {
		name string
		e    ExpectedType
		want string
	}{
		{"Specific", ExpectedSpecific{Type: Number{Kind: F32}}, "f32"},
		{"Class", ExpectedClass{Class: ClassIntegralAny}, "(any integer type)"},
		{"Union", ExpectedUnion{}, "(any union type)"},
		{"Symbol", ExpectedSymbol{}, "(any symbol type)"},
		{
			"AnyOf",
			ExpectedAnyOf{Choices: []ExpectedType{
				ExpectedSpecific{Type: Boolean{}},
				ExpectedUnion{},
			}},
			"bool or (any union type)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConflictEquality(t *testing.T) {
	base := Conflict{
		Expected: ExpectedSpecific{Type: Number{Kind: F32}},
		Actual:   Number{Kind: F64},
	}

	same := Conflict{
		Expected: ExpectedSpecific{Type: Number{Kind: F32}},
		Actual:   Number{Kind: F64},
	}
	if !Equal(base, same) {
		t.Error("identical conflicts should be equal")
	}

	differentActual := Conflict{
		Expected: ExpectedSpecific{Type: Number{Kind: F32}},
		Actual:   Number{Kind: I32},
	}
	if Equal(base, differentActual) {
		t.Error("conflicts with different actual types should not be equal")
	}

	if Equal(base, Number{Kind: F32}) {
		t.Error("a conflict should never equal a plain type")
	}
	if !IsConflict(base) {
		t.Error("IsConflict should report conflicts")
	}
	if IsConflict(Number{Kind: F32}) {
		t.Error("IsConflict should reject plain types")
	}
}

func TestConflictString(t *testing.T) {
	c := Conflict{
		Expected: ExpectedSpecific{Type: Number{Kind: F32}},
		Actual:   Number{Kind: F64},
	}
	if got, want := c.String(), "f32!=f64"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
