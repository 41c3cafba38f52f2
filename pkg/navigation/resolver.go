package navigation

import "context"

// Resolver combines a [Detector] and a [Router]: each page reports its own
// half of a navigation and gets back the transition for the whole pair.
type Resolver[T any] struct {
	detector Detector
	router   *Router[T]
}

// NewResolver returns a resolver over d and r.
func NewResolver[T any](d Detector, r *Router[T]) *Resolver[T] {
	return &Resolver[T]{detector: d, router: r}
}

// Resolve records that key was left or entered and waits for the other
// half. It returns false when no pair resolved or no transition applies.
func (r *Resolver[T]) Resolve(ctx context.Context, key string, kind Kind) (T, Pair, bool) {
	r.detector.Trigger(key, kind)
	pair, ok := r.detector.Get(ctx, kind)
	if !ok {
		var zero T
		return zero, Pair{}, false
	}
	t, ok := r.router.Find(pair.From, pair.To)
	return t, pair, ok
}
