package navigation

// Rule maps a from/to path pattern pair to a transition. Patterns follow
// [MatchPath].
type Rule[T any] struct {
	From       string
	To         string
	Transition T
	// Symmetric also applies the rule to the reverse navigation.
	Symmetric bool
}

// Middleware rewrites a navigation before rules are matched, for example to
// strip a locale prefix.
type Middleware func(from, to string) (string, string)

// RouterConfig configures a [Router].
type RouterConfig[T any] struct {
	Rules []Rule[T]
	// Default is used when no rule matches. Nil means no transition.
	Default    *T
	Middleware Middleware
}

// Router picks the transition for a navigation.
//
// Rules whose patterns are both literal paths win over wildcard rules; within
// each group the first matching rule in declaration order wins.
type Router[T any] struct {
	exact      []Rule[T]
	wildcard   []Rule[T]
	def        *T
	middleware Middleware
}

// NewRouter builds a router. Symmetric rules are expanded into their
// reversed counterpart, placed directly after the original.
func NewRouter[T any](cfg RouterConfig[T]) *Router[T] {
	r := &Router[T]{def: cfg.Default, middleware: cfg.Middleware}
	for _, rule := range cfg.Rules {
		r.add(rule)
		if rule.Symmetric {
			r.add(Rule[T]{From: rule.To, To: rule.From, Transition: rule.Transition})
		}
	}
	return r
}

func (r *Router[T]) add(rule Rule[T]) {
	if isWildcard(rule.From) || isWildcard(rule.To) {
		r.wildcard = append(r.wildcard, rule)
		return
	}
	r.exact = append(r.exact, rule)
}

// Find returns the transition for a navigation from one path to another.
// The second result is false when neither a rule nor a default applies.
func (r *Router[T]) Find(from, to string) (T, bool) {
	if rule, ok := r.match(from, to); ok {
		return rule.Transition, true
	}
	if r.def != nil {
		return *r.def, true
	}
	var zero T
	return zero, false
}

// Has reports whether a rule, not the default, matches the navigation.
func (r *Router[T]) Has(from, to string) bool {
	_, ok := r.match(from, to)
	return ok
}

func (r *Router[T]) match(from, to string) (Rule[T], bool) {
	if r.middleware != nil {
		from, to = r.middleware(from, to)
	}
	for _, group := range [][]Rule[T]{r.exact, r.wildcard} {
		for _, rule := range group {
			if MatchPath(rule.From, from) && MatchPath(rule.To, to) {
				return rule, true
			}
		}
	}
	return Rule[T]{}, false
}
