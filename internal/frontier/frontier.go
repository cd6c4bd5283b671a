package frontier

import (
	"container/heap"
	"sync"
	"time"

	"gocrawler/internal/metrics"
	"gocrawler/internal/urlnorm"
)

// Options controls per-host admission.
type Options struct {
	MaxPerHost      int           // concurrent fetches per host
	MinInterval     time.Duration // spacing between fetch starts on one host; 0 disables
	MaxQueuePerHost int           // queue depth valve; 0 = unbounded
}

const (
	whereNone = iota
	whereReady
	whereDelayed
)

// hostState carries the pending queue and admission state for one host.
// Created lazily on first enqueue, never reclaimed during a run.
type hostState struct {
	name         string
	queue        []string
	inFlight     int
	nextDispatch time.Time
	where        int
	heapIdx      int
}

// Frontier queues URLs per host and hands exactly one admissible URL at a
// time to a waiting worker. A host is admissible when its queue is non-empty,
// inFlight < MaxPerHost and now >= nextDispatch. Hosts move between a ready
// list and a time-ordered delayed heap as admission changes.
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	opts    Options
	visited Visited

	hosts   map[string]*hostState
	ready   []*hostState
	delayed delayedHeap

	timer   *time.Timer
	timerAt time.Time

	closed   bool
	pending  int
	inFlight int
	dropped  int64
}

// Lease is the right to occupy one of a host's concurrency slots. Release is
// idempotent and must run on every exit path of a fetch cycle.
type Lease struct {
	f    *Frontier
	hs   *hostState
	once sync.Once
}

func (l *Lease) Host() string { return l.hs.name }

func New(visited Visited, opts Options) *Frontier {
	if opts.MaxPerHost <= 0 {
		opts.MaxPerHost = 1
	}
	f := &Frontier{
		opts:    opts,
		visited: visited,
		hosts:   make(map[string]*hostState),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue admits u if it has never been seen before. Returns true iff u was
// queued. After Close it is a silent no-op.
func (f *Frontier) Enqueue(u string) bool {
	host := urlnorm.Host(u)
	if host == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if !f.visited.AddIfAbsent(u) {
		return false
	}

	hs := f.hosts[host]
	if hs == nil {
		hs = &hostState{name: host}
		f.hosts[host] = hs
	}
	if f.opts.MaxQueuePerHost > 0 && len(hs.queue) >= f.opts.MaxQueuePerHost {
		f.dropped++
		metrics.URLsDropped.Inc()
		return false
	}

	hs.queue = append(hs.queue, u)
	f.pending++
	metrics.FrontierSize.Set(float64(f.pending))
	f.scheduleLocked(hs, time.Now())
	return true
}

// Next blocks until an admissible URL is available and returns it with its
// lease. ok is false once the frontier is closed, every queue is drained and
// no leases remain outstanding; that is how workers learn to exit.
func (f *Frontier) Next() (string, *Lease, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		now := time.Now()
		f.promoteDueLocked(now)

		if len(f.ready) > 0 {
			hs := f.ready[0]
			f.ready = f.ready[1:]
			hs.where = whereNone
			if now.Before(hs.nextDispatch) {
				// a release pushed nextDispatch while the host sat in the
				// ready list; refile it as delayed
				f.scheduleLocked(hs, now)
				continue
			}

			u := hs.queue[0]
			hs.queue = hs.queue[1:]
			f.pending--
			hs.inFlight++
			f.inFlight++
			if f.opts.MinInterval > 0 {
				hs.nextDispatch = now.Add(f.opts.MinInterval)
			}
			metrics.FrontierSize.Set(float64(f.pending))
			f.scheduleLocked(hs, now)
			return u, &Lease{f: f, hs: hs}, true
		}

		if f.pending == 0 && f.inFlight == 0 {
			if !f.closed {
				// Exhausted: nothing queued and only lease holders can
				// enqueue, so no future work is possible.
				f.closed = true
				f.cond.Broadcast()
			}
			return "", nil, false
		}

		f.armTimerLocked()
		f.cond.Wait()
	}
}

// Release returns the host slot and pushes the host's next dispatch time
// forward by MinInterval.
func (l *Lease) Release() {
	l.once.Do(func() {
		f := l.f
		f.mu.Lock()
		defer f.mu.Unlock()

		l.hs.inFlight--
		f.inFlight--
		now := time.Now()
		if f.opts.MinInterval > 0 {
			l.hs.nextDispatch = now.Add(f.opts.MinInterval)
			if l.hs.where == whereDelayed {
				heap.Fix(&f.delayed, l.hs.heapIdx)
			}
		}
		f.scheduleLocked(l.hs, now)
		if f.pending == 0 && f.inFlight == 0 {
			f.cond.Broadcast()
		}
	})
}

// Close stops admission and drops everything still queued. Outstanding
// leases drain normally; all waiters in Next are woken and return closed
// once the last outstanding lease is released.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for _, hs := range f.hosts {
		hs.queue = nil
		hs.where = whereNone
	}
	f.ready = nil
	f.delayed = nil
	f.pending = 0
	if f.timer != nil {
		f.timer.Stop()
		f.timerAt = time.Time{}
	}
	metrics.FrontierSize.Set(0)
	f.cond.Broadcast()
}

func (f *Frontier) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Size reports the number of queued URLs.
func (f *Frontier) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// InFlight reports the number of outstanding leases.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Dropped reports URLs lost to the per-host queue depth valve.
func (f *Frontier) Dropped() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// scheduleLocked files hs into ready or delayed if it is schedulable and not
// already filed. Callers hold f.mu.
func (f *Frontier) scheduleLocked(hs *hostState, now time.Time) {
	if f.closed || hs.where != whereNone {
		return
	}
	if len(hs.queue) == 0 || hs.inFlight >= f.opts.MaxPerHost {
		return
	}
	if f.opts.MinInterval == 0 || !now.Before(hs.nextDispatch) {
		hs.where = whereReady
		f.ready = append(f.ready, hs)
		f.cond.Signal()
		return
	}
	hs.where = whereDelayed
	heap.Push(&f.delayed, hs)
	f.armTimerLocked()
}

// promoteDueLocked moves hosts whose dispatch time has arrived from the
// delayed heap to the ready list.
func (f *Frontier) promoteDueLocked(now time.Time) {
	for len(f.delayed) > 0 && !now.Before(f.delayed[0].nextDispatch) {
		hs := heap.Pop(&f.delayed).(*hostState)
		hs.where = whereReady
		f.ready = append(f.ready, hs)
	}
}

// armTimerLocked (re)schedules the wake-up for the earliest delayed host.
func (f *Frontier) armTimerLocked() {
	if len(f.delayed) == 0 {
		return
	}
	at := f.delayed[0].nextDispatch
	if !f.timerAt.IsZero() && !at.Before(f.timerAt) {
		return
	}
	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	f.timerAt = at
	if f.timer == nil {
		f.timer = time.AfterFunc(d, f.onTimer)
	} else {
		f.timer.Reset(d)
	}
}

func (f *Frontier) onTimer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timerAt = time.Time{}
	if f.closed {
		return
	}
	f.promoteDueLocked(time.Now())
	f.armTimerLocked()
	f.cond.Broadcast()
}

// min-heap of hosts keyed by nextDispatch
type delayedHeap []*hostState

func (h delayedHeap) Len() int { return len(h) }
func (h delayedHeap) Less(i, j int) bool {
	return h[i].nextDispatch.Before(h[j].nextDispatch)
}
func (h delayedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx = i
	h[j].heapIdx = j
}
func (h *delayedHeap) Push(x any) {
	hs := x.(*hostState)
	hs.heapIdx = len(*h)
	*h = append(*h, hs)
}
func (h *delayedHeap) Pop() any {
	old := *h
	n := len(old)
	hs := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return hs
}
