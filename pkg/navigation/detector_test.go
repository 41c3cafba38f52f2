package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/transit/pkg/observability"
)

type got struct {
	pair Pair
	ok   bool
}

// wait runs Get on its own goroutine and blocks until it is registered.
func wait(t *testing.T, d Detector, kind Kind) <-chan got {
	t.Helper()
	det := d.(*detector)
	before := waiters(det)
	ch := make(chan got, 1)
	go func() {
		p, ok := d.Get(context.Background(), kind)
		ch <- got{p, ok}
	}()
	require.Eventually(t, func() bool { return waiters(det) > before }, time.Second, time.Millisecond)
	return ch
}

func waiters(d *detector) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return 0
	}
	return len(d.pending.waiters)
}

func receive(t *testing.T, ch <-chan got) got {
	t.Helper()
	select {
	case g := <-ch:
		return g
	case <-time.After(time.Second):
		t.Fatal("waiter never resolved")
		return got{}
	}
}

type navRecorder struct {
	mu        sync.Mutex
	resolved  []Pair
	cancelled []string
}

func (r *navRecorder) OnPairResolved(_ context.Context, from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, Pair{From: from, To: to})
}

func (r *navRecorder) OnPairCancelled(_ context.Context, key, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, kind+":"+key)
}

func hooks(t *testing.T) *navRecorder {
	t.Helper()
	r := &navRecorder{}
	observability.SetNavigationHooks(r)
	t.Cleanup(observability.Reset)
	return r
}

func TestOutFirstPairsOutThenIn(t *testing.T) {
	rec := hooks(t)
	d := NewOutFirst()

	d.Trigger("/a", KindOut)
	out := wait(t, d, KindOut)
	d.Trigger("/b", KindIn)
	pair, ok := d.Get(context.Background(), KindIn)

	require.True(t, ok)
	assert.Equal(t, Pair{From: "/a", To: "/b"}, pair)
	assert.Equal(t, got{pair, true}, receive(t, out))
	assert.Equal(t, []Pair{{From: "/a", To: "/b"}}, rec.resolved)
}

func TestOutFirstSkipsLoneIn(t *testing.T) {
	d := NewOutFirst()

	d.Trigger("/fresh", KindIn)
	_, ok := d.Get(context.Background(), KindIn)
	assert.False(t, ok, "an in with nothing pending is a fresh load")

	d.Trigger("/a", KindOut)
	out := wait(t, d, KindOut)
	d.Trigger("/b", KindIn)
	pair, ok := d.Get(context.Background(), KindIn)

	require.True(t, ok)
	assert.Equal(t, Pair{From: "/a", To: "/b"}, pair)
	assert.Equal(t, pair, receive(t, out).pair)
}

func TestAnyOrderPairsInThenOut(t *testing.T) {
	d := NewAnyOrder()

	d.Trigger("/b", KindIn)
	in := wait(t, d, KindIn)
	d.Trigger("/a", KindOut)
	pair, ok := d.Get(context.Background(), KindOut)

	require.True(t, ok)
	assert.Equal(t, Pair{From: "/a", To: "/b"}, pair)
	assert.Equal(t, got{pair, true}, receive(t, in))
}

func TestAnyOrderCancelsStalePair(t *testing.T) {
	rec := hooks(t)
	d := NewAnyOrder()

	d.Trigger("/a", KindOut)
	stale := wait(t, d, KindOut)
	d.Trigger("/c", KindOut)

	assert.Equal(t, got{}, receive(t, stale))
	assert.Equal(t, []string{"out:/c"}, rec.cancelled)

	out := wait(t, d, KindOut)
	d.Trigger("/b", KindIn)
	pair, ok := d.Get(context.Background(), KindIn)
	require.True(t, ok)
	assert.Equal(t, Pair{From: "/c", To: "/b"}, pair)
	assert.Equal(t, pair, receive(t, out).pair)
}

func TestAnyOrderRepeatedKeyKeepsPair(t *testing.T) {
	rec := hooks(t)
	d := NewAnyOrder()

	d.Trigger("/a", KindOut)
	d.Trigger("/a", KindOut)
	d.Trigger("/b", KindIn)
	pair, ok := d.Get(context.Background(), KindIn)

	require.True(t, ok)
	assert.Equal(t, Pair{From: "/a", To: "/b"}, pair)
	assert.Empty(t, rec.cancelled)
}

func TestGetHonoursContext(t *testing.T) {
	d := NewAnyOrder()
	d.Trigger("/a", KindOut)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok := d.Get(ctx, KindOut)

	assert.False(t, ok)
	assert.Zero(t, waiters(d.(*detector)), "a cancelled waiter is removed")

	d.Trigger("/b", KindIn)
	pair, ok := d.Get(context.Background(), KindIn)
	require.True(t, ok, "the pending half survives a cancelled waiter")
	assert.Equal(t, Pair{From: "/a", To: "/b"}, pair)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "out", KindOut.String())
	assert.Equal(t, "in", KindIn.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
