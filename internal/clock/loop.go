package clock

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Timer is a pending callback in a Loop.
type Timer struct {
	at     time.Time
	seq    uint64
	period time.Duration
	fn     func()
	group  *Group
	index  int // heap position, -1 once fired or stopped
}

// When is the next fire time.
func (t *Timer) When() time.Time { return t.at }

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Loop is an ordered queue of (fire time, callback) pairs. Timers fire in
// time order, ties in scheduling order. Callbacks run one at a time and
// without the queue lock held, so they may schedule or cancel timers.
type Loop struct {
	mu    sync.Mutex
	run   sync.Mutex // serializes callbacks
	clock Clock
	queue timerHeap
	seq   uint64
	wake  chan struct{}
}

// NewLoop returns a loop reading time from c; nil means the wall clock.
func NewLoop(c Clock) *Loop {
	if c == nil {
		c = RealClock{}
	}
	return &Loop{clock: c, wake: make(chan struct{}, 1)}
}

// Now is the loop clock's time.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Clock returns the loop's time source.
func (l *Loop) Clock() Clock { return l.clock }

// AfterFunc runs fn once, d from now.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	return l.schedule(d, 0, fn, nil)
}

// Every runs fn every period, starting one period from now.
func (l *Loop) Every(period time.Duration, fn func()) *Timer {
	return l.schedule(period, period, fn, nil)
}

func (l *Loop) schedule(d, period time.Duration, fn func(), g *Group) *Timer {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.seq++
	t := &Timer{at: l.clock.Now().Add(d), seq: l.seq, period: period, fn: fn, group: g}
	heap.Push(&l.queue, t)
	if g != nil {
		g.timers[t] = struct{}{}
	}
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Stop cancels t. It reports whether t was still pending.
func (l *Loop) Stop(t *Timer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopLocked(t)
}

func (l *Loop) stopLocked(t *Timer) bool {
	if t.group != nil {
		delete(t.group.timers, t)
	}
	if t.index < 0 {
		return false
	}
	heap.Remove(&l.queue, t.index)
	return true
}

// Pending is the number of queued timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// next pops the earliest timer due at or before now. Periodic timers are
// re-armed before being returned so their callback can stop them.
func (l *Loop) next(now time.Time) (*Timer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 || l.queue[0].at.After(now) {
		return nil, false
	}
	t := heap.Pop(&l.queue).(*Timer)
	if t.period > 0 {
		t.at = t.at.Add(t.period)
		l.seq++
		t.seq = l.seq
		heap.Push(&l.queue, t)
	} else if t.group != nil {
		delete(t.group.timers, t)
	}
	return t, true
}

// RunDue fires every timer due at the current time and returns how many
// fired. Timers scheduled by callbacks for the current instant fire too.
func (l *Loop) RunDue() int {
	l.run.Lock()
	defer l.run.Unlock()
	n := 0
	for {
		t, ok := l.next(l.clock.Now())
		if !ok {
			return n
		}
		t.fn()
		n++
	}
}

func (l *Loop) peek() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].at, true
}

type settable interface {
	Set(time.Time)
}

// Advance moves a manual clock forward by d, stopping at each timer's fire
// time so callbacks observe the time they were scheduled for. With any other
// clock it only runs what is already due.
func (l *Loop) Advance(d time.Duration) int {
	mc, ok := l.clock.(settable)
	if !ok {
		return l.RunDue()
	}
	target := l.clock.Now().Add(d)
	n := 0
	for {
		at, ok := l.peek()
		if !ok || at.After(target) {
			break
		}
		mc.Set(at)
		n += l.RunDue()
	}
	mc.Set(target)
	return n + l.RunDue()
}

const idleWait = time.Hour

// Run drives the loop in real time until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunDue()
		wait := idleWait
		if at, ok := l.peek(); ok {
			wait = max(at.Sub(l.clock.Now()), 0)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-l.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Group collects the timers of one session so they can be cancelled
// together.
type Group struct {
	loop   *Loop
	timers map[*Timer]struct{}
}

// NewGroup starts an empty timer group on the loop.
func (l *Loop) NewGroup() *Group {
	return &Group{loop: l, timers: make(map[*Timer]struct{})}
}

func (g *Group) AfterFunc(d time.Duration, fn func()) *Timer {
	return g.loop.schedule(d, 0, fn, g)
}

func (g *Group) Every(period time.Duration, fn func()) *Timer {
	return g.loop.schedule(period, period, fn, g)
}

// Cancel stops every pending timer of the group and returns how many there
// were.
func (g *Group) Cancel() int {
	g.loop.mu.Lock()
	defer g.loop.mu.Unlock()
	n := 0
	for t := range g.timers {
		if g.loop.stopLocked(t) {
			n++
		}
	}
	return n
}

// Len is the number of pending timers in the group.
func (g *Group) Len() int {
	g.loop.mu.Lock()
	defer g.loop.mu.Unlock()
	return len(g.timers)
}
