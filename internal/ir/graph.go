package ir

import (
	"fmt"
	"io"
	"sort"
)

// Graph rendering for the entity graph. The DOT export is a debugging
// surface only: it consumes the same components the inference engine
// produces but never influences them.

type edgeStyle int

const (
	styleSolid edgeStyle = iota
	styleDotted
	styleDashed
)

type edge struct {
	from  Entity
	to    Entity
	label string
	style edgeStyle
}

// WriteDOT writes the entity graph in Graphviz DOT format. Every
// element-bearing entity becomes a node labeled with its element kind,
// its resolved type when present, and its scope name when present.
func WriteDOT(w io.Writer, s *Store) error {
	if _, err := fmt.Fprintln(w, "digraph ir {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  node [shape=record];"); err != nil {
		return err
	}

	for _, e := range s.Entities() {
		el, _ := s.Element(e)
		label := fmt.Sprintf("(%d) %s", e, nodeLabel(el))
		if t, ok := s.Type(e); ok {
			label += fmt.Sprintf("\\n%s", t.String())
		}
		if name, ok := s.Scope(e); ok {
			if name == "" {
				label += "\\n(root)"
			} else {
				label += fmt.Sprintf("\\n%s", name)
			}
		}
		if _, err := fmt.Fprintf(w, "  n%d [label=%q];\n", e, label); err != nil {
			return err
		}
	}

	for _, e := range s.Entities() {
		el, _ := s.Element(e)
		for _, ed := range edges(e, el) {
			attrs := fmt.Sprintf("label=%q", ed.label)
			switch ed.style {
			case styleDotted:
				attrs += " style=dotted"
			case styleDashed:
				attrs += " style=dashed"
			}
			if _, err := fmt.Fprintf(w, "  n%d -> n%d [%s];\n", ed.from, ed.to, attrs); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func nodeLabel(el Element) string {
	switch e := el.(type) {
	case Number:
		return fmt.Sprintf("num %v%s", e.Value, e.Kind)
	case String:
		return fmt.Sprintf("str %q", e.Value)
	case Symbol:
		return fmt.Sprintf("sym %s", e.Label)
	case Tuple:
		return fmt.Sprintf("tuple %d fields", len(e.Fields))
	case Record:
		return fmt.Sprintf("record %d fields", len(e.Fields))
	case UnOp:
		return fmt.Sprintf("un op %s", e.Operator)
	case BiOp:
		return fmt.Sprintf("bi op %s", e.Operator)
	case Variable:
		return fmt.Sprintf("variable %s", e.Name)
	case Select:
		return "select"
	case Apply:
		return fmt.Sprintf("apply %d params", len(e.Parameters))
	case Parameter:
		return fmt.Sprintf("param %s", e.Name)
	case Capture:
		return fmt.Sprintf("capture %s", e.Name)
	case Closure:
		return fmt.Sprintf("closure %d params %d captures", len(e.Parameters), len(e.Captures))
	case Module:
		return fmt.Sprintf("module %d defs", len(e.Definitions))
	default:
		return "(unknown)"
	}
}

func edges(from Entity, el Element) []edge {
	var out []edge
	switch e := el.(type) {
	case Number, String, Symbol:
	case Tuple:
		for idx, f := range e.Fields {
			out = append(out, edge{from, f, fmt.Sprintf("field %d", idx), styleSolid})
		}
	case Record:
		for _, name := range sortedNames(e.Fields) {
			out = append(out, edge{from, e.Fields[name], fmt.Sprintf("field %s", name), styleSolid})
		}
	case UnOp:
		out = append(out, edge{from, e.Operand, "operand", styleSolid})
	case BiOp:
		out = append(out, edge{from, e.Lhs, "lhs", styleSolid})
		out = append(out, edge{from, e.Rhs, "rhs", styleSolid})
	case Variable:
		out = append(out, edge{from, e.Initializer, "initializer", styleSolid})
	case Select:
		out = append(out, edge{from, e.Record, fmt.Sprintf("select %s", e.Field), styleSolid})
	case Apply:
		out = append(out, edge{from, e.Function, "func", styleSolid})
		for idx, p := range e.Parameters {
			out = append(out, edge{from, p, fmt.Sprintf("param %d", idx), styleSolid})
		}
	case Parameter:
		if e.Signature.IsValid() {
			out = append(out, edge{from, e.Signature, "sig", styleDotted})
		}
	case Capture:
		out = append(out, edge{from, e.Captured, fmt.Sprintf("capture definition %s", e.Name), styleDashed})
	case Closure:
		for _, name := range sortedNames(e.Captures) {
			out = append(out, edge{from, e.Captures[name], fmt.Sprintf("capture %s", name), styleDashed})
		}
		for idx, p := range e.Parameters {
			out = append(out, edge{from, p, fmt.Sprintf("param %d", idx), styleSolid})
		}
		for idx, st := range e.Statements {
			out = append(out, edge{from, st, fmt.Sprintf("stmt %d", idx), styleDashed})
		}
		if e.Signature.IsValid() {
			out = append(out, edge{from, e.Signature, "sig", styleDotted})
		}
		out = append(out, edge{from, e.Result, "result", styleSolid})
	case Module:
		for _, name := range sortedNames(e.Definitions) {
			out = append(out, edge{from, e.Definitions[name], fmt.Sprintf("def %s", name), styleSolid})
		}
	}
	return out
}

func sortedNames(m map[string]Entity) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
