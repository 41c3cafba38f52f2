package animation

import "math"

type entry struct {
	item    SpringItem
	anim    *Single
	offset  float64
	started bool
	done    bool
}

// Multi runs several springs over a shared range. Each item starts once its
// predecessor in the direction of travel has covered the item's offset of
// the range; an offset of 1 waits for the predecessor to complete. Running
// backward mirrors the order: the last item starts first and item k waits on
// item k+1 against offset k+1.
//
// Start conditions are polled from a post-tick subscription, after every
// item has stepped in that pulse. The subscription is dropped as soon as no
// item is left waiting.
//
// All methods must be called from the goroutine that pulses the ticker.
type Multi struct {
	cfg     MultiConfig
	env     Env
	from    float64
	to      float64
	entries []*entry

	dir     Status
	active  bool
	polling bool
	dirty   bool

	unsubscribe func()
}

// New normalizes cfg and returns an idle [Multi] for it.
func New(cfg TransitionConfig, env Env) (*Multi, error) {
	mc, err := Normalize(cfg, env.Facility)
	if err != nil {
		return nil, err
	}
	return newMulti(mc, env)
}

// NewMulti returns an idle animator for cfg. A nil Range means [0, 1].
func NewMulti(cfg MultiConfig, env Env) (*Multi, error) {
	return New(cfg, env)
}

func newMulti(cfg MultiConfig, env Env) (*Multi, error) {
	env.Ticker = env.ticker()

	m := &Multi{cfg: cfg, env: env, to: 1}
	if cfg.Range != nil {
		m.from, m.to = cfg.Range.From, cfg.Range.To
	}

	for _, it := range cfg.Springs {
		e := &entry{item: it, offset: offset(cfg.Schedule, it.Offset)}
		anim, err := NewSingle(Options{
			From:       m.from,
			To:         m.to,
			Integrator: it.factory,
			Tick:       it.Tick,
			Style:      it.Style,
			OnStart:    it.OnStart,
			OnComplete: func() { m.itemDone(e) },
			Env:        env,
		})
		if err != nil {
			return nil, err
		}
		e.anim = anim
		m.entries = append(m.entries, e)
	}
	return m, nil
}

func offset(s Schedule, item float64) float64 {
	switch s {
	case ScheduleSequential:
		return 1
	case ScheduleChain:
		return item
	default:
		return 0
	}
}

// Forward runs every item toward To.
func (m *Multi) Forward() {
	m.start(StatusForward)
}

// Backward runs every item toward From.
func (m *Multi) Backward() {
	m.start(StatusBackward)
}

func (m *Multi) start(dir Status) {
	m.Stop()
	m.dir = dir
	m.active = true
	for _, e := range m.entries {
		e.started, e.done = false, false
	}
	call(m.cfg.OnStart)
	if m.active {
		m.poll()
	}
}

// Reverse turns a running transition around. Completed items restart from
// rest toward the other end, running items turn around in place, and items
// that never started are already at the new destination and count as
// complete. An idle animator simply runs the opposite way.
func (m *Multi) Reverse() {
	if !m.active {
		if m.dir == StatusForward {
			m.Backward()
		} else {
			m.Forward()
		}
		return
	}

	m.dir = opposite(m.dir)
	dest := m.dest()

	var restart []*entry
	for _, e := range m.entries {
		switch {
		case !e.started:
			e.started, e.done = true, true
		case e.done:
			e.done = false
			e.anim.SetState(e.anim.Snapshot().Position, 0)
			restart = append(restart, e)
		default:
			restart = append(restart, e)
		}
	}
	// Flags are settled before any run starts, since an item without a
	// tick or style completes inside AnimateTo.
	for _, e := range restart {
		if !m.active {
			return
		}
		e.anim.AnimateTo(dest)
	}
	if m.active && m.completed() == len(m.entries) {
		m.finish()
	}
	m.sync()
}

// Stop halts every item. No callback fires afterwards.
func (m *Multi) Stop() {
	m.active = false
	m.sync()
	for _, e := range m.entries {
		e.anim.Stop()
	}
}

// Snapshot reports the first item's state with the shared range.
func (m *Multi) Snapshot() Snapshot {
	snap := m.entries[0].anim.Snapshot()
	snap.From, snap.To = m.from, m.to
	return snap
}

// SetState stops every item and seeds each with the same state.
func (m *Multi) SetState(position, velocity float64) {
	m.Stop()
	for _, e := range m.entries {
		e.anim.SetState(position, velocity)
	}
}

// IsAnimating reports whether a run is in progress.
func (m *Multi) IsAnimating() bool {
	return m.active
}

// Len returns the number of items.
func (m *Multi) Len() int {
	return len(m.entries)
}

func (m *Multi) dest() float64 {
	if m.dir == StatusBackward {
		return m.from
	}
	return m.to
}

// order returns item indices in the direction of travel.
func (m *Multi) order() []int {
	idx := make([]int, len(m.entries))
	for i := range idx {
		if m.dir == StatusBackward {
			idx[i] = len(idx) - 1 - i
		} else {
			idx[i] = i
		}
	}
	return idx
}

// progress is the distance e has covered from the origin of the current
// direction, as a fraction of the range. Overshoot reads above 1.
func (m *Multi) progress(e *entry) float64 {
	span := math.Abs(m.to - m.from)
	if span == 0 {
		return 1
	}
	origin := m.from
	if m.dir == StatusBackward {
		origin = m.to
	}
	return math.Abs(e.anim.Snapshot().Position-origin) / span
}

func (m *Multi) ready(pred *entry, threshold float64) bool {
	if !pred.started {
		return false
	}
	if pred.done {
		return true
	}
	return threshold < 1 && m.progress(pred) >= threshold
}

func (m *Multi) poll() {
	if m.polling {
		m.dirty = true
		return
	}
	m.polling = true
	for {
		m.dirty = false
		m.startReady()
		if !m.dirty || !m.active {
			break
		}
	}
	m.polling = false
	m.sync()
}

func (m *Multi) startReady() {
	order := m.order()
	for j, k := range order {
		e := m.entries[k]
		if e.started {
			continue
		}
		if j > 0 {
			pred := m.entries[order[j-1]]
			threshold := e.offset
			if m.dir == StatusBackward {
				threshold = pred.offset
			}
			if !m.ready(pred, threshold) {
				return
			}
		}
		e.started = true
		e.anim.AnimateTo(m.dest())
		if !m.active {
			return
		}
	}
}

func (m *Multi) itemDone(e *entry) {
	if !m.active || !e.started || e.done {
		return
	}
	e.done = true
	call(e.item.OnComplete)

	done := m.completed()
	if m.cfg.OnProgress != nil {
		m.cfg.OnProgress(done, len(m.entries))
	}
	if done == len(m.entries) {
		m.finish()
		return
	}
	m.poll()
}

func (m *Multi) finish() {
	if !m.active {
		return
	}
	m.active = false
	m.sync()
	call(m.cfg.OnEnd)
}

func (m *Multi) completed() int {
	n := 0
	for _, e := range m.entries {
		if e.done {
			n++
		}
	}
	return n
}

// sync keeps the post-tick poll subscribed only while some item is running
// and another is still waiting to start.
func (m *Multi) sync() {
	waiting, running := false, false
	for _, e := range m.entries {
		switch {
		case !e.started:
			waiting = true
		case !e.done:
			running = true
		}
	}
	want := m.active && waiting && running

	switch {
	case want && m.unsubscribe == nil:
		m.unsubscribe = m.env.Ticker.SubscribePost(func(float64, float64) { m.poll() })
	case !want && m.unsubscribe != nil:
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func opposite(s Status) Status {
	if s == StatusBackward {
		return StatusForward
	}
	return StatusBackward
}
