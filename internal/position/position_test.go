package position

import "testing"

const testSource = "a = 1\nb = a + 2"

func pos(line, col, offset int) Position {
	return Position{Filename: "test.silt", Line: line, Column: col, Offset: offset}
}

func span(startLine, startCol, startOff, endLine, endCol, endOff int) Span {
	return Span{
		Start: pos(startLine, startCol, startOff),
		End:   pos(endLine, endCol, endOff),
	}
}

func TestSpanContains(t *testing.T) {
	s := span(2, 5, 10, 2, 10, 15) // "a + 2"

	cases := []struct {
		name string
		pos  Position
		want bool
	}{
		{"start is inside", pos(2, 5, 10), true},
		{"interior point", pos(2, 7, 12), true},
		{"end is exclusive", pos(2, 10, 15), false},
		{"before the span", pos(1, 1, 0), false},
		{"other file", Position{Filename: "other.silt", Line: 2, Column: 7, Offset: 12}, false},
		{"invalid position", Position{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Contains(tc.pos); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.pos, got, tc.want)
			}
		})
	}
}

func TestSpanUnion(t *testing.T) {
	lhs := span(2, 1, 6, 2, 2, 7)   // "b"
	rhs := span(2, 5, 10, 2, 6, 11) // "a"

	got := lhs.Union(rhs)
	want := span(2, 1, 6, 2, 6, 11)
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	// Union is symmetric.
	if rhs.Union(lhs) != want {
		t.Errorf("Union is not symmetric")
	}

	// An invalid side yields the other span unchanged.
	if lhs.Union(Span{}) != lhs {
		t.Errorf("Union with an invalid span changed the valid side")
	}
	if (Span{}).Union(rhs) != rhs {
		t.Errorf("Union of an invalid span lost the valid side")
	}

	other := Span{
		Start: Position{Filename: "other.silt", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "other.silt", Line: 1, Column: 2, Offset: 1},
	}
	if lhs.Union(other) != lhs {
		t.Errorf("Union across files should keep the receiver")
	}
}

func TestSourceFileGetSpanText(t *testing.T) {
	sf := NewSourceFile("test.silt", testSource)

	if got := sf.GetSpanText(span(2, 5, 10, 2, 10, 15)); got != "a + 2" {
		t.Errorf("GetSpanText = %q, want %q", got, "a + 2")
	}
	if got := sf.GetSpanText(span(1, 5, 4, 2, 2, 7)); got != "1\nb" {
		t.Errorf("multi-line GetSpanText = %q, want %q", got, "1\nb")
	}
	if got := sf.GetSpanText(Span{}); got != "" {
		t.Errorf("GetSpanText on an invalid span = %q, want empty", got)
	}
	far := span(1, 1, 100, 1, 2, 101)
	if got := sf.GetSpanText(far); got != "" {
		t.Errorf("GetSpanText past the content = %q, want empty", got)
	}
}

func TestPositionFromOffset(t *testing.T) {
	sf := NewSourceFile("test.silt", testSource)

	cases := []struct {
		offset int
		want   Position
	}{
		{0, pos(1, 1, 0)},
		{4, pos(1, 5, 4)},
		{6, pos(2, 1, 6)},
		{10, pos(2, 5, 10)},
	}
	for _, tc := range cases {
		if got := sf.PositionFromOffset(tc.offset); got != tc.want {
			t.Errorf("PositionFromOffset(%d) = %v, want %v", tc.offset, got, tc.want)
		}
	}

	if got := sf.PositionFromOffset(-1); got.IsValid() {
		t.Errorf("PositionFromOffset(-1) = %v, want invalid", got)
	}
	if got := sf.PositionFromOffset(len(testSource) + 1); got.IsValid() {
		t.Errorf("PositionFromOffset past the end = %v, want invalid", got)
	}
}

func TestSourceMapGetSpanText(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("test.silt", testSource)

	if got := sm.GetSpanText(span(2, 5, 10, 2, 10, 15)); got != "a + 2" {
		t.Errorf("GetSpanText = %q, want %q", got, "a + 2")
	}
	unknown := Span{
		Start: Position{Filename: "missing.silt", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "missing.silt", Line: 1, Column: 2, Offset: 1},
	}
	if got := sm.GetSpanText(unknown); got != "" {
		t.Errorf("GetSpanText for an unknown file = %q, want empty", got)
	}
}
