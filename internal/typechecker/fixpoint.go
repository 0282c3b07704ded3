package typechecker

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/types"
)

// Fixpoint is the batch evaluation strategy: it repeatedly scans all
// entities without a type, attempts each entity's rule against the
// committed snapshot, and commits every newly resolvable type between
// rounds. Rule attempts within a round are independent and run in
// parallel; commits are monotonic, so a round only ever observes types
// committed by earlier rounds.
type Fixpoint struct {
	cfg Config
}

// NewFixpoint creates a fixpoint strategy with the given configuration
func NewFixpoint(cfg Config) *Fixpoint {
	return &Fixpoint{cfg: cfg}
}

// committedView reads only the store's committed types. Missing types are
// pending, never errors.
type committedView struct {
	store *ir.Store
}

func (v committedView) typeOf(e ir.Entity) (types.Type, bool, error) {
	t, ok := v.store.Type(e)
	return t, ok, nil
}

type resolved struct {
	entity ir.Entity
	typ    types.Type
}

// Check runs inference to fixpoint over the whole store. It returns an
// error for engine-fatal conditions (unsupported operators) and for
// entities left unresolved once no further progress is possible;
// per-entity conflicts are recorded in the store, not returned.
func (f *Fixpoint) Check(store *ir.Store) error {
	obs := f.cfg.observer()
	view := committedView{store: store}

	limit := f.cfg.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	for round := 1; ; round++ {
		pending := store.Untyped()
		if len(pending) == 0 {
			break
		}
		obs.RoundStarted(round, len(pending))

		var (
			mu    sync.Mutex
			batch []resolved
		)
		g := new(errgroup.Group)
		g.SetLimit(limit)
		for _, e := range pending {
			g.Go(func() error {
				el, ok := store.Element(e)
				if !ok {
					return nil
				}
				t, err := elementType(store, f.cfg, view, e, el)
				if err != nil {
					return err
				}
				if t == nil {
					return nil
				}
				mu.Lock()
				batch = append(batch, resolved{entity: e, typ: t})
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if len(batch) == 0 {
			obs.RoundFinished(round, 0)
			break
		}
		for _, r := range batch {
			committed := store.SetType(r.entity, r.typ)
			obs.TypeCommitted(r.entity, committed)
			if c, ok := committed.(types.Conflict); ok {
				obs.ConflictDetected(r.entity, c)
			}
		}
		obs.RoundFinished(round, len(batch))
	}

	if residual := store.Untyped(); len(residual) > 0 {
		return &UnresolvedError{Entities: residual}
	}
	return nil
}
