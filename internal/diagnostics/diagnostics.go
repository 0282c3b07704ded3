// Package diagnostics turns structured conflict values and other
// inference failures into user-facing diagnostics for the Silt compiler.
// Rendering consumes only the structure a conflict already carries; it
// never re-analyzes the program.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/silt-lang/silt/internal/position"
	"github.com/silt-lang/silt/internal/types"
)

// Level represents the severity level of a diagnostic
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category represents the category of diagnostic
type Category int

const (
	CategoryTypeConflict Category = iota
	CategoryUnresolved
	CategoryCycle
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryTypeConflict:
		return "type-conflict"
	case CategoryUnresolved:
		return "unresolved"
	case CategoryCycle:
		return "cycle"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// RelatedInformation provides additional context from another location
type RelatedInformation struct {
	Message  string
	Location position.Span
}

// Diagnostic represents one user-facing message with its source locations
type Diagnostic struct {
	Level       Level
	Category    Category
	Message     string
	Span        position.Span
	RelatedInfo []RelatedInformation
}

// FromConflict converts a conflict value into a diagnostic. The main span
// carries the expected-vs-actual message; every aux note becomes one
// related-information entry.
func FromConflict(c types.Conflict) Diagnostic {
	d := Diagnostic{
		Level:    LevelError,
		Category: CategoryTypeConflict,
		Message:  fmt.Sprintf("expected `%s` but got `%s`", c.Expected, c.Actual),
		Span:     c.Main,
	}
	for _, aux := range c.Aux {
		d.RelatedInfo = append(d.RelatedInfo, RelatedInformation{
			Message:  aux.Label,
			Location: aux.Span,
		})
	}
	return d
}

// Manager collects diagnostics for a compilation session
type Manager struct {
	diagnostics []Diagnostic
	errorCount  int
	maxErrors   int
	sources     *position.SourceMap
}

// NewManager creates a diagnostic manager. The source map may be nil, in
// which case rendering omits source line context.
func NewManager(sources *position.SourceMap) *Manager {
	return &Manager{
		maxErrors: 100,
		sources:   sources,
	}
}

// SetErrorLimit sets the maximum number of errors retained
func (m *Manager) SetErrorLimit(limit int) {
	m.maxErrors = limit
}

// Add records a diagnostic, subject to the error limit
func (m *Manager) Add(d Diagnostic) {
	if d.Level == LevelError {
		if m.errorCount >= m.maxErrors {
			return
		}
		m.errorCount++
	}
	m.diagnostics = append(m.diagnostics, d)
}

// AddConflict records the diagnostic for a conflict value
func (m *Manager) AddConflict(c types.Conflict) {
	m.Add(FromConflict(c))
}

// HasErrors returns true if any error-level diagnostic was recorded
func (m *Manager) HasErrors() bool {
	return m.errorCount > 0
}

// ErrorCount returns the number of error-level diagnostics
func (m *Manager) ErrorCount() int {
	return m.errorCount
}

// Diagnostics returns the recorded diagnostics sorted by source position
func (m *Manager) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Before(out[j].Span.Start)
	})
	return out
}

// Render formats all recorded diagnostics for terminal output
func (m *Manager) Render() string {
	var sb strings.Builder
	for i, d := range m.Diagnostics() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		m.renderDiagnostic(&sb, d)
	}
	return sb.String()
}

func (m *Manager) renderDiagnostic(sb *strings.Builder, d Diagnostic) {
	fmt.Fprintf(sb, "%s: %s\n", d.Level, d.Message)
	m.renderSpan(sb, d.Span, "")
	for _, rel := range d.RelatedInfo {
		m.renderSpan(sb, rel.Location, rel.Message)
	}
}

// renderSpan writes one span reference with its source line and a caret
// marker underneath, in the style:
//
//	- file.silt:3:10
//	3 |   1f32 + 2f64
//	  |          ^^^^ expected `f32` but got `f64`
func (m *Manager) renderSpan(sb *strings.Builder, span position.Span, label string) {
	if !span.IsValid() {
		if label != "" {
			fmt.Fprintf(sb, "- %s\n", label)
		}
		return
	}
	fmt.Fprintf(sb, "- %s\n", span)

	if m.sources == nil {
		if label != "" {
			fmt.Fprintf(sb, "  %s\n", label)
		}
		return
	}
	line := m.sources.GetLine(span.Start)
	if line == "" {
		if label != "" {
			fmt.Fprintf(sb, "  %s\n", label)
		}
		return
	}

	lineNum := fmt.Sprintf("%d", span.Start.Line)
	fmt.Fprintf(sb, "%s | %s\n", lineNum, line)

	width := span.Length()
	if span.Start.Line != span.End.Line || width < 1 {
		width = 1
	}
	marker := strings.Repeat(" ", span.Start.Column-1) + strings.Repeat("^", width)
	pad := strings.Repeat(" ", len(lineNum))
	if label != "" {
		fmt.Fprintf(sb, "%s | %s %s\n", pad, marker, label)
	} else {
		fmt.Fprintf(sb, "%s | %s\n", pad, marker)
	}
}
