package typechecker

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/types"
)

// Pull is the on-demand evaluation strategy: resolving one entity
// recursively resolves and memoizes the types it depends on. Re-entrant
// requests for an entity already on the current resolution chain fail
// with a cycle error instead of recursing forever. Independent root
// queries may run concurrently; duplicate commits of one entity are
// collapsed through a singleflight group and the store's first-writer-wins
// type commit.
type Pull struct {
	store *ir.Store
	cfg   Config
	group singleflight.Group
}

// NewPull creates a pull strategy over the given store
func NewPull(store *ir.Store, cfg Config) *Pull {
	return &Pull{store: store, cfg: cfg}
}

// pullView resolves dependencies recursively. Every answer is either a
// resolved type or a hard error; nothing stays pending under pull except
// entities that lack required annotations, which surface as errors.
type pullView struct {
	p        *Pull
	visiting map[ir.Entity]bool
	path     []ir.Entity
}

func (v pullView) typeOf(e ir.Entity) (types.Type, bool, error) {
	t, err := v.p.resolve(e, v.visiting, v.path)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Resolve computes and memoizes the type of one entity, resolving its
// dependencies first
func (p *Pull) Resolve(e ir.Entity) (types.Type, error) {
	return p.resolve(e, make(map[ir.Entity]bool), nil)
}

// Check resolves every entity in the store. It stops at the first
// engine-fatal condition; conflicts are recorded in the store as usual.
func (p *Pull) Check() error {
	for _, e := range p.store.Entities() {
		if _, err := p.Resolve(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pull) resolve(e ir.Entity, visiting map[ir.Entity]bool, path []ir.Entity) (types.Type, error) {
	if t, ok := p.store.Type(e); ok {
		return t, nil
	}
	if visiting[e] {
		return nil, &CycleError{Path: append(append([]ir.Entity{}, path...), e)}
	}

	el, ok := p.store.Element(e)
	if !ok {
		return nil, &UnresolvedError{Entities: []ir.Entity{e}}
	}

	// Dependencies are resolved here, before entering the singleflight
	// group. A Do body that recursed would block on other keys, and two
	// roots meeting on a cycle from opposite ends would then wait on
	// each other's slot forever. With no recursion below, every walk of
	// a cycle terminates in this root's own visiting set.
	visiting[e] = true
	view := pullView{p: p, visiting: visiting, path: append(path, e)}
	t, err := elementType(p.store, p.cfg, view, e, el)
	delete(visiting, e)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &UnresolvedError{Entities: []ir.Entity{e}}
	}

	// The group only collapses concurrent commits of one entity, so the
	// observer sees each entity once. Roots that re-derived the same
	// entity in parallel settle on the store's first committed type.
	v, _, _ := p.group.Do(strconv.FormatUint(uint64(e), 10), func() (interface{}, error) {
		if prev, ok := p.store.Type(e); ok {
			return prev, nil
		}
		committed := p.store.SetType(e, t)
		obs := p.cfg.observer()
		obs.TypeCommitted(e, committed)
		if c, ok := committed.(types.Conflict); ok {
			obs.ConflictDetected(e, c)
		}
		return committed, nil
	})
	return v.(types.Type), nil
}
