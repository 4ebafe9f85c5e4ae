package toolsched

import (
	"sync"
	"time"

	"github.com/tessera-io/tessera/pkg/protocol"
)

// Minimum time a tool group stays visible in each stage when animation is
// enabled. Keeps near-instant tool calls from flickering through the UI.
const (
	SearchingMinDuration = 1000 * time.Millisecond
	SearchedMinDuration  = 1000 * time.Millisecond
)

// Stage is the display lifecycle of one tool group.
type Stage int

const (
	StageIdle Stage = iota
	StageSearching
	StageSearched
	StageDone
)

// Status returns the UI label for the stage. Idle and Done have no label.
func (s Stage) Status() string {
	switch s {
	case StageSearching:
		return "searching"
	case StageSearched:
		return "searched"
	}
	return ""
}

// Options configures the timing of tool display transitions. With Animate
// false every minimum duration collapses to zero, used for non-interactive
// and replay rendering.
type Options struct {
	Animate      bool
	SearchingMin time.Duration
	SearchedMin  time.Duration
}

// DefaultOptions returns the standard smoothing durations.
func DefaultOptions(animate bool) Options {
	return Options{
		Animate:      animate,
		SearchingMin: SearchingMinDuration,
		SearchedMin:  SearchedMinDuration,
	}
}

func (o Options) searchingMin() time.Duration {
	if !o.Animate {
		return 0
	}
	return o.SearchingMin
}

func (o Options) searchedMin() time.Duration {
	if !o.Animate {
		return 0
	}
	return o.SearchedMin
}

// GroupScheduler runs the timed display state machine for one tool group:
// IDLE -> SEARCHING -> SEARCHED -> DONE. The completion callback fires
// exactly once, on entering DONE. Timers are armed on first entry into a
// stage, never re-armed by later packets. Stop cancels synchronously; a
// stopped scheduler never fires.
type GroupScheduler struct {
	mu sync.Mutex

	ind    int
	opts   Options
	onDone func()

	stage            Stage
	enteredSearching time.Time
	endSeen          bool
	doneFired        bool
	stopped          bool

	// gen invalidates in-flight timer callbacks after Stop.
	gen   uint64
	timer *time.Timer
}

// NewGroupScheduler creates a scheduler for the tool group with the given
// ind. onDone may be nil.
func NewGroupScheduler(ind int, opts Options, onDone func()) *GroupScheduler {
	return &GroupScheduler{ind: ind, opts: opts, onDone: onDone}
}

// Ind returns the group index this scheduler belongs to.
func (s *GroupScheduler) Ind() int {
	return s.ind
}

// Observe folds the group's current packet list into the state machine.
// Safe to call on every stream update; a group whose start never resolves to
// an end simply stays in SEARCHING.
func (s *GroupScheduler) Observe(g protocol.Group) {
	s.mu.Lock()
	if s.stopped || s.stage == StageDone {
		s.mu.Unlock()
		return
	}

	if g.HasEnd() {
		s.endSeen = true
	}
	if s.stage == StageIdle && g.HasToolStart() {
		// Instant start+end still passes through SEARCHING for the minimum
		// duration.
		s.stage = StageSearching
		s.enteredSearching = time.Now()
	}

	fire := s.advanceLocked()
	s.mu.Unlock()
	if fire {
		s.onDone()
	}
}

// advanceLocked moves out of SEARCHING once the end is seen and the minimum
// visible time is served, arming a timer for whatever remains. Reports
// whether the completion callback must fire.
func (s *GroupScheduler) advanceLocked() bool {
	if s.stage != StageSearching || !s.endSeen || s.timer != nil {
		return false
	}
	if remaining := s.opts.searchingMin() - time.Since(s.enteredSearching); remaining > 0 {
		s.armTimerLocked(remaining)
		return false
	}
	return s.enterSearchedLocked()
}

func (s *GroupScheduler) enterSearchedLocked() bool {
	s.stage = StageSearched
	s.timer = nil
	if min := s.opts.searchedMin(); min > 0 {
		s.armTimerLocked(min)
		return false
	}
	return s.finishLocked()
}

func (s *GroupScheduler) finishLocked() bool {
	s.stage = StageDone
	s.timer = nil
	if s.doneFired {
		return false
	}
	s.doneFired = true
	return s.onDone != nil
}

func (s *GroupScheduler) armTimerLocked(d time.Duration) {
	gen := s.gen
	s.timer = time.AfterFunc(d, func() { s.timerFired(gen) })
}

func (s *GroupScheduler) timerFired(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	var fire bool
	switch s.stage {
	case StageSearching:
		fire = s.enterSearchedLocked()
	case StageSearched:
		fire = s.finishLocked()
	}
	s.mu.Unlock()
	if fire {
		s.onDone()
	}
}

// Stage returns the current display stage.
func (s *GroupScheduler) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Status returns the UI label for the current stage.
func (s *GroupScheduler) Status() string {
	return s.Stage().Status()
}

// Done reports whether the group's display has finished.
func (s *GroupScheduler) Done() bool {
	return s.Stage() == StageDone
}

// Stop cancels any pending timer and freezes the machine. No callback fires
// after Stop returns.
func (s *GroupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
