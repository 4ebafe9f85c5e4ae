package toolsched

import (
	"sync"

	"github.com/tessera-io/tessera/pkg/protocol"
)

// Tracker owns the per-group schedulers of one message and emits an
// aggregate signal whenever every tracked tool group has finished displaying.
// It is torn down wholesale when the message identity changes.
type Tracker struct {
	mu sync.Mutex

	opts      Options
	onAllDone func()

	groups    map[int]*GroupScheduler
	doneCount int
	allFired  bool
	stopped   bool
}

// NewTracker creates a tracker. onAllDone fires when the last tracked group
// reaches DONE, and again after any later-registered group catches up; it
// never fires for a message without tool groups. May be nil.
func NewTracker(opts Options, onAllDone func()) *Tracker {
	return &Tracker{
		opts:      opts,
		onAllDone: onAllDone,
		groups:    make(map[int]*GroupScheduler),
	}
}

// Sync reconciles the tracked schedulers against the aggregator's current
// tool groups and folds the latest packets into each. New groups get a fresh
// scheduler; existing ones just observe.
func (t *Tracker) Sync(toolGroups []protocol.Group) {
	type pending struct {
		sched *GroupScheduler
		group protocol.Group
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	work := make([]pending, 0, len(toolGroups))
	for _, g := range toolGroups {
		sched, ok := t.groups[g.Ind]
		if !ok {
			sched = NewGroupScheduler(g.Ind, t.opts, t.groupDone)
			t.groups[g.Ind] = sched
			// A group registered after a previous aggregate fire (a stray
			// tool call interleaved into the answer) re-arms the signal so
			// it fires again once this group displays.
			t.allFired = false
		}
		work = append(work, pending{sched, g})
	}
	t.mu.Unlock()

	// Observe outside the tracker lock: with animation disabled a scheduler
	// completes synchronously and calls straight back into groupDone.
	for _, w := range work {
		w.sched.Observe(w.group)
	}
}

func (t *Tracker) groupDone() {
	t.mu.Lock()
	t.doneCount++
	fire := !t.stopped && !t.allFired && len(t.groups) > 0 && t.doneCount == len(t.groups)
	if fire {
		t.allFired = true
	}
	cb := t.onAllDone
	t.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
}

// AllDisplayed reports whether every tracked tool group has finished
// displaying. Vacuously true when the message has no tool groups.
func (t *Tracker) AllDisplayed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doneCount == len(t.groups)
}

// Status returns the UI label for one tracked group, or "" if the group is
// unknown or already done.
func (t *Tracker) Status(ind int) string {
	t.mu.Lock()
	sched, ok := t.groups[ind]
	t.mu.Unlock()
	if !ok {
		return ""
	}
	return sched.Status()
}

// Statuses returns the UI label of every tracked group, keyed by ind.
func (t *Tracker) Statuses() map[int]string {
	t.mu.Lock()
	scheds := make([]*GroupScheduler, 0, len(t.groups))
	for _, s := range t.groups {
		scheds = append(scheds, s)
	}
	t.mu.Unlock()

	statuses := make(map[int]string, len(scheds))
	for _, s := range scheds {
		statuses[s.Ind()] = s.Status()
	}
	return statuses
}

// Stop cancels every pending timer synchronously. No per-group or aggregate
// callback fires after Stop returns; the tracker cannot be reused.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	scheds := make([]*GroupScheduler, 0, len(t.groups))
	for _, s := range t.groups {
		scheds = append(scheds, s)
	}
	t.mu.Unlock()

	for _, s := range scheds {
		s.Stop()
	}
}
