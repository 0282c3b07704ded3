package ir

import (
	"sort"
	"sync"

	"github.com/silt-lang/silt/internal/position"
	"github.com/silt-lang/silt/internal/types"
)

// Store is an arena of entities with parallel component maps. Elements,
// locations and scope names are populated by lowering before inference
// runs and are read-only afterwards. Type components are produced solely
// by the inference engine under an insert-if-absent discipline.
type Store struct {
	mu        sync.RWMutex
	next      Entity
	elements  map[Entity]Element
	types     map[Entity]types.Type
	locations map[Entity]position.Span
	scopes    map[Entity]string
}

// NewStore creates an empty entity store
func NewStore() *Store {
	return &Store{
		next:      InvalidEntity,
		elements:  make(map[Entity]Element),
		types:     make(map[Entity]types.Type),
		locations: make(map[Entity]position.Span),
		scopes:    make(map[Entity]string),
	}
}

// New allocates an entity with the given element and source location
func (s *Store) New(el Element, span position.Span) Entity {
	s.next++
	e := s.next
	s.elements[e] = el
	s.locations[e] = span
	return e
}

// Element returns the structural payload of the entity
func (s *Store) Element(e Entity) (Element, bool) {
	el, ok := s.elements[e]
	return el, ok
}

// Location returns the source span used to anchor diagnostics for the
// entity. Entities created without a location yield the zero span.
func (s *Store) Location(e Entity) position.Span {
	return s.locations[e]
}

// SetScope records the scope name component for the entity
func (s *Store) SetScope(e Entity, name string) {
	s.scopes[e] = name
}

// Scope returns the scope name component of the entity, if any
func (s *Store) Scope(e Entity) (string, bool) {
	name, ok := s.scopes[e]
	return name, ok
}

// Type returns the entity's resolved type, which may be a conflict value.
// The second result is false while the type has not yet been computed.
func (s *Store) Type(e Entity) (types.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[e]
	return t, ok
}

// SetType records the entity's type if none is recorded yet and returns
// the committed value. The first writer wins; concurrent duplicate
// derivations reconcile to a single committed type.
func (s *Store) SetType(e Entity, t types.Type) types.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.types[e]; ok {
		return existing
	}
	s.types[e] = t
	return t
}

// Entities returns every allocated element-bearing entity in order
func (s *Store) Entities() []Entity {
	out := make([]Entity, 0, len(s.elements))
	for e := range s.elements {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Untyped returns, in order, the entities that have an element but no
// resolved type yet
func (s *Store) Untyped() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entity, 0)
	for e := range s.elements {
		if _, ok := s.types[e]; !ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of allocated entities
func (s *Store) Len() int {
	return len(s.elements)
}
