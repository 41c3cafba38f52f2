// Package navigation pairs the exit of one page with the entrance of the next
// and picks the transition for that pair.
//
// When a page changes, the outgoing page reports an "out" trigger and the
// incoming page an "in" trigger. A [Detector] collects both halves into a
// [Pair]; a [Router] then maps the pair to a transition.
//
// Two detectors are provided. [NewOutFirst] expects the out trigger first and
// treats an in trigger with nothing pending as a fresh load. [NewAnyOrder]
// accepts either order and waits for the other half indefinitely.
package navigation

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/observability"
)

// Kind is the half of a navigation a trigger reports.
type Kind int

const (
	// KindOut is reported by the page being left.
	KindOut Kind = iota
	// KindIn is reported by the page being entered.
	KindIn
)

func (k Kind) String() string {
	switch k {
	case KindOut:
		return "out"
	case KindIn:
		return "in"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Pair is a resolved navigation.
type Pair struct {
	From string
	To   string
}

// Detector collects out and in triggers into pairs. It is safe for
// concurrent use.
type Detector interface {
	// Trigger records that key was left (KindOut) or entered (KindIn).
	Trigger(key string, kind Kind)
	// Get blocks until the pair containing this half resolves. It returns
	// false when there is no pair: the half was cancelled, ctx ended, or
	// (for OutFirst) an in arrived with no out pending.
	Get(ctx context.Context, kind Kind) (Pair, bool)
}

type result struct {
	pair Pair
	ok   bool
}

type pending struct {
	id       string
	from, to string
	hasFrom  bool
	hasTo    bool
	waiters  []chan result
}

func (p *pending) set(key string, kind Kind) {
	if kind == KindOut {
		p.from, p.hasFrom = key, true
	} else {
		p.to, p.hasTo = key, true
	}
}

func (p *pending) resolve(r result) {
	for _, ch := range p.waiters {
		ch <- r
	}
	p.waiters = nil
}

type detector struct {
	anyOrder bool

	mu      sync.Mutex
	pending *pending
}

// NewOutFirst returns a detector for adapters whose out trigger always
// precedes the in trigger. An in with no out pending resolves immediately to
// no pair, which is what a fresh page load looks like.
func NewOutFirst() Detector {
	return &detector{}
}

// NewAnyOrder returns a detector that accepts the two halves in either
// order. A trigger naming a different key than the pending half of the same
// kind cancels the stale pending pair.
func NewAnyOrder() Detector {
	return &detector{anyOrder: true}
}

func (d *detector) Trigger(key string, kind Kind) {
	d.mu.Lock()
	var cancelled *pending
	if d.anyOrder && d.pending != nil && d.stale(key, kind) {
		cancelled = d.pending
		d.pending = nil
		cancelled.resolve(result{})
	}
	if d.pending == nil {
		d.pending = &pending{id: uuid.NewString()}
	}
	d.pending.set(key, kind)
	d.mu.Unlock()

	if cancelled != nil {
		errors.Logger().Debug("navigation pair cancelled", "pair", cancelled.id, "key", key, "kind", kind)
		observability.Navigation().OnPairCancelled(context.Background(), key, kind.String())
	}
}

func (d *detector) stale(key string, kind Kind) bool {
	p := d.pending
	if kind == KindOut {
		return p.hasFrom && p.from != key
	}
	return p.hasTo && p.to != key
}

func (d *detector) Get(ctx context.Context, kind Kind) (Pair, bool) {
	d.mu.Lock()
	if !d.anyOrder && kind == KindIn && (d.pending == nil || !d.pending.hasFrom) {
		// A lone in must not pair with the next out.
		if d.pending != nil && len(d.pending.waiters) == 0 {
			d.pending = nil
		}
		d.mu.Unlock()
		return Pair{}, false
	}
	if d.pending == nil {
		d.pending = &pending{id: uuid.NewString()}
	}
	p := d.pending
	ch := make(chan result, 1)
	p.waiters = append(p.waiters, ch)
	resolved := d.checkLocked()
	d.mu.Unlock()

	if resolved != nil {
		errors.Logger().Debug("navigation pair resolved", "pair", resolved.id, "from", resolved.from, "to", resolved.to)
		observability.Navigation().OnPairResolved(ctx, resolved.from, resolved.to)
	}

	select {
	case r := <-ch:
		return r.pair, r.ok
	case <-ctx.Done():
		d.mu.Lock()
		if i := slices.Index(p.waiters, ch); i >= 0 {
			p.waiters = slices.Delete(p.waiters, i, i+1)
		}
		d.mu.Unlock()
		// The pair may have resolved while we were unregistering.
		select {
		case r := <-ch:
			return r.pair, r.ok
		default:
			return Pair{}, false
		}
	}
}

// checkLocked resolves every waiter once both halves are known and clears
// the pending pair. It returns the resolved pair, or nil.
func (d *detector) checkLocked() *pending {
	p := d.pending
	if p == nil || !p.hasFrom || !p.hasTo {
		return nil
	}
	p.resolve(result{pair: Pair{From: p.from, To: p.to}, ok: true})
	d.pending = nil
	return p
}
