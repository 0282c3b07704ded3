package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/silt-lang/silt/internal/position"
	"github.com/silt-lang/silt/internal/types"
)

// Graph files are the driver-facing dump format for a lowered entity
// graph. The format carries a semantic version; decoding rejects files
// produced for an incompatible format generation.

// FormatVersion is the graph file format version written by this build
const FormatVersion = "1.0.0"

// formatConstraint gates the file versions this build can decode
var formatConstraint = mustConstraint("^1.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

type graphFile struct {
	Format   string       `json:"format"`
	Entities []entityFile `json:"entities"`
}

type spanFile struct {
	File      string `json:"file,omitempty"`
	Line      int    `json:"line"`
	Col       int    `json:"col"`
	Offset    int    `json:"offset"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
	EndOffset int    `json:"endOffset"`
}

type entityFile struct {
	ID         uint32            `json:"id"`
	Kind       string            `json:"kind"`
	Span       *spanFile         `json:"span,omitempty"`
	Scope      *string           `json:"scope,omitempty"`
	NumberKind string            `json:"numberKind,omitempty"`
	Value      string            `json:"value,omitempty"`
	Label      string            `json:"label,omitempty"`
	Name       string            `json:"name,omitempty"`
	Field      string            `json:"field,omitempty"`
	Operator   string            `json:"operator,omitempty"`
	Target     uint32            `json:"target,omitempty"`
	Result     uint32            `json:"result,omitempty"`
	Fields     []uint32          `json:"fields,omitempty"`
	Statements []uint32          `json:"statements,omitempty"`
	Named      map[string]uint32 `json:"named,omitempty"`
}

// EncodeGraph writes the store's entities as a graph file
func EncodeGraph(w io.Writer, s *Store) error {
	file := graphFile{Format: FormatVersion}
	for _, e := range s.Entities() {
		el, _ := s.Element(e)
		ef, err := encodeEntity(s, e, el)
		if err != nil {
			return err
		}
		file.Entities = append(file.Entities, ef)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&file)
}

// DecodeGraph reads a graph file into a fresh store
func DecodeGraph(r io.Reader) (*Store, error) {
	var file graphFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding graph file: %w", err)
	}

	v, err := semver.NewVersion(file.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid graph format version %q: %w", file.Format, err)
	}
	if !formatConstraint.Check(v) {
		return nil, fmt.Errorf("unsupported graph format version %s (this build accepts %s)", v, formatConstraint)
	}

	sort.Slice(file.Entities, func(i, j int) bool { return file.Entities[i].ID < file.Entities[j].ID })

	s := NewStore()
	for i, ef := range file.Entities {
		if ef.ID != uint32(i+1) {
			return nil, fmt.Errorf("graph file entity ids must be contiguous from 1, got %d at index %d", ef.ID, i)
		}
		el, err := decodeEntity(ef)
		if err != nil {
			return nil, err
		}
		e := s.New(el, decodeSpan(ef.Span))
		if ef.Scope != nil {
			s.SetScope(e, *ef.Scope)
		}
	}

	if err := validateReferences(s); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeEntity(s *Store, e Entity, el Element) (entityFile, error) {
	ef := entityFile{ID: uint32(e)}
	if span := s.Location(e); span.IsValid() {
		ef.Span = encodeSpan(span)
	}
	if scope, ok := s.Scope(e); ok {
		ef.Scope = &scope
	}

	switch el := el.(type) {
	case Number:
		ef.Kind = "number"
		ef.NumberKind = el.Kind.String()
		ef.Value = formatNumber(el.Value)
	case String:
		ef.Kind = "string"
		ef.Value = el.Value
	case Symbol:
		ef.Kind = "symbol"
		ef.Label = el.Label
	case Tuple:
		ef.Kind = "tuple"
		ef.Fields = encodeEntities(el.Fields)
	case Record:
		ef.Kind = "record"
		ef.Named = encodeNamed(el.Fields)
	case UnOp:
		ef.Kind = "unop"
		ef.Operator = el.Operator.String()
		ef.Target = uint32(el.Operand)
	case BiOp:
		ef.Kind = "biop"
		ef.Operator = el.Operator.String()
		ef.Target = uint32(el.Lhs)
		ef.Result = uint32(el.Rhs)
	case Variable:
		ef.Kind = "variable"
		ef.Name = el.Name
		ef.Target = uint32(el.Initializer)
	case Select:
		ef.Kind = "select"
		ef.Field = el.Field
		ef.Target = uint32(el.Record)
	case Apply:
		ef.Kind = "apply"
		ef.Target = uint32(el.Function)
		ef.Fields = encodeEntities(el.Parameters)
	case Parameter:
		ef.Kind = "parameter"
		ef.Name = el.Name
		ef.Target = uint32(el.Signature)
	case Capture:
		ef.Kind = "capture"
		ef.Name = el.Name
		ef.Target = uint32(el.Captured)
	case Closure:
		ef.Kind = "closure"
		ef.Named = encodeNamed(el.Captures)
		ef.Fields = encodeEntities(el.Parameters)
		ef.Statements = encodeEntities(el.Statements)
		ef.Target = uint32(el.Signature)
		ef.Result = uint32(el.Result)
	case Module:
		ef.Kind = "module"
		ef.Named = encodeNamed(el.Definitions)
	default:
		return entityFile{}, fmt.Errorf("entity %d: unknown element %T", e, el)
	}
	return ef, nil
}

func decodeEntity(ef entityFile) (Element, error) {
	switch ef.Kind {
	case "number":
		kind, ok := numberKindFromString(ef.NumberKind)
		if !ok {
			return nil, fmt.Errorf("entity %d: unknown number kind %q", ef.ID, ef.NumberKind)
		}
		value, err := parseNumber(kind, ef.Value)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", ef.ID, err)
		}
		return Number{Kind: kind, Value: value}, nil
	case "string":
		return String{Value: ef.Value}, nil
	case "symbol":
		return Symbol{Label: ef.Label}, nil
	case "tuple":
		return Tuple{Fields: decodeEntities(ef.Fields)}, nil
	case "record":
		return Record{Fields: decodeNamed(ef.Named)}, nil
	case "unop":
		op, ok := unOperatorFromString(ef.Operator)
		if !ok {
			return nil, fmt.Errorf("entity %d: unknown unary operator %q", ef.ID, ef.Operator)
		}
		return UnOp{Operator: op, Operand: Entity(ef.Target)}, nil
	case "biop":
		op, ok := biOperatorFromString(ef.Operator)
		if !ok {
			return nil, fmt.Errorf("entity %d: unknown binary operator %q", ef.ID, ef.Operator)
		}
		return BiOp{Lhs: Entity(ef.Target), Operator: op, Rhs: Entity(ef.Result)}, nil
	case "variable":
		return Variable{Name: ef.Name, Initializer: Entity(ef.Target)}, nil
	case "select":
		return Select{Record: Entity(ef.Target), Field: ef.Field}, nil
	case "apply":
		return Apply{Function: Entity(ef.Target), Parameters: decodeEntities(ef.Fields)}, nil
	case "parameter":
		return Parameter{Name: ef.Name, Signature: Entity(ef.Target)}, nil
	case "capture":
		return Capture{Name: ef.Name, Captured: Entity(ef.Target)}, nil
	case "closure":
		return Closure{
			Captures:   decodeNamed(ef.Named),
			Parameters: decodeEntities(ef.Fields),
			Statements: decodeEntities(ef.Statements),
			Signature:  Entity(ef.Target),
			Result:     Entity(ef.Result),
		}, nil
	case "module":
		return Module{Definitions: decodeNamed(ef.Named)}, nil
	default:
		return nil, fmt.Errorf("entity %d: unknown element kind %q", ef.ID, ef.Kind)
	}
}

func encodeSpan(span position.Span) *spanFile {
	return &spanFile{
		File:      span.Start.Filename,
		Line:      span.Start.Line,
		Col:       span.Start.Column,
		Offset:    span.Start.Offset,
		EndLine:   span.End.Line,
		EndCol:    span.End.Column,
		EndOffset: span.End.Offset,
	}
}

func decodeSpan(sf *spanFile) position.Span {
	if sf == nil {
		return position.Span{}
	}
	return position.Span{
		Start: position.Position{Filename: sf.File, Line: sf.Line, Column: sf.Col, Offset: sf.Offset},
		End:   position.Position{Filename: sf.File, Line: sf.EndLine, Column: sf.EndCol, Offset: sf.EndOffset},
	}
}

func encodeEntities(es []Entity) []uint32 {
	out := make([]uint32, len(es))
	for i, e := range es {
		out[i] = uint32(e)
	}
	return out
}

func decodeEntities(ids []uint32) []Entity {
	out := make([]Entity, len(ids))
	for i, id := range ids {
		out[i] = Entity(id)
	}
	return out
}

func encodeNamed(m map[string]Entity) map[string]uint32 {
	out := make(map[string]uint32, len(m))
	for name, e := range m {
		out[name] = uint32(e)
	}
	return out
}

func decodeNamed(m map[string]uint32) map[string]Entity {
	out := make(map[string]Entity, len(m))
	for name, id := range m {
		out[name] = Entity(id)
	}
	return out
}

func formatNumber(v interface{}) string {
	switch n := v.(type) {
	case uint64:
		return strconv.FormatUint(n, 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func parseNumber(kind types.NumberKind, s string) (interface{}, error) {
	switch kind {
	case types.U8, types.U16, types.U32, types.U64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s literal %q: %w", kind, s, err)
		}
		return v, nil
	case types.I8, types.I16, types.I32, types.I64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s literal %q: %w", kind, s, err)
		}
		return v, nil
	case types.F32, types.F64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s literal %q: %w", kind, s, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown number kind %v", kind)
	}
}

func numberKindFromString(s string) (types.NumberKind, bool) {
	for _, k := range []types.NumberKind{
		types.U8, types.U16, types.U32, types.U64,
		types.I8, types.I16, types.I32, types.I64,
		types.F32, types.F64,
	} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func unOperatorFromString(s string) (UnOperator, bool) {
	for op := Not; op <= Sqrt; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

func biOperatorFromString(s string) (BiOperator, bool) {
	for op := Eq; op <= ShR; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// validateReferences checks that every entity reference in the store
// points at an allocated entity
func validateReferences(s *Store) error {
	for _, e := range s.Entities() {
		el, _ := s.Element(e)
		for _, ed := range edges(e, el) {
			if _, ok := s.Element(ed.to); !ok {
				return fmt.Errorf("entity %d references unknown entity %d (%s)", e, ed.to, ed.label)
			}
		}
	}
	return nil
}
