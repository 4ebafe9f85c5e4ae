package session

import (
	"sync"

	"github.com/tessera-io/tessera/pkg/aggregator"
	"github.com/tessera-io/tessera/pkg/logger"
	"github.com/tessera-io/tessera/pkg/protocol"
	"github.com/tessera-io/tessera/pkg/toolsched"
)

// View is what the renderer consumes: the aggregator's snapshot plus the
// scheduler's per-group display state.
type View struct {
	MessageID      string
	Snapshot       aggregator.Snapshot
	ToolStatus     map[int]string
	ToolsDisplayed bool
}

// Session owns the render-target lifecycle for one stream of assistant
// replies. It holds exactly one aggregator and one tool tracker at a time;
// both are discarded and rebuilt when the message identity changes or the
// packet sequence is replaced. All outstanding timers are cancelled before
// any new processing begins, so a stale timer can never mutate state for a
// new identity.
type Session struct {
	mu sync.Mutex

	opts     toolsched.Options
	onUpdate func(View)

	messageID      string
	lastPackets    []protocol.Packet
	agg            *aggregator.Aggregator
	tracker        *toolsched.Tracker
	renderFinished bool
	displayDone    bool
}

// New creates a session. onUpdate is invoked with a fresh View after every
// processing pass and after scheduler-driven transitions; it may be called
// from timer goroutines. May be nil.
func New(opts toolsched.Options, onUpdate func(View)) *Session {
	return &Session{opts: opts, onUpdate: onUpdate}
}

// HandleUpdate folds the latest whole-sequence delivery from the transport.
// Satisfies transport.UpdateFunc.
func (s *Session) HandleUpdate(messageID string, packets []protocol.Packet) {
	s.mu.Lock()
	if s.agg == nil || messageID != s.messageID || len(packets) < len(s.lastPackets) {
		s.rebindLocked(messageID)
	}
	s.lastPackets = packets
	s.renderFinished = false
	snap := s.agg.Process(messageID, packets)
	tracker := s.tracker
	s.mu.Unlock()

	// Outside the session lock: with animation disabled Sync can complete
	// groups synchronously and re-enter via onToolsDisplayed.
	tracker.Sync(aggregator.ToolGroups(snap.Groups))

	s.mu.Lock()
	if s.messageID != messageID {
		// rebound while syncing; the new identity will publish its own view
		s.mu.Unlock()
		return
	}
	view := s.buildViewLocked(snap)
	s.mu.Unlock()

	s.publish(view)
}

// rebindLocked tears down the previous identity and prepares a fresh one.
// Timer cancellation is synchronous: after Stop returns no callback of the
// old tracker can fire.
func (s *Session) rebindLocked(messageID string) {
	if s.tracker != nil {
		s.tracker.Stop()
	}
	logger.Debug("binding render target %q (was %q)", messageID, s.messageID)

	id := messageID
	s.messageID = messageID
	s.lastPackets = nil
	s.agg = aggregator.New()
	s.tracker = toolsched.NewTracker(s.opts, func() { s.onToolsDisplayed(id) })
	s.renderFinished = false
	s.displayDone = false
}

// RenderComplete is the renderer's confirmation that the last display group
// finished rendering. The completion gate only opens once all tool groups
// have displayed as well; if the answer framing was reverted by a late tool
// packet, the gate stays shut.
func (s *Session) RenderComplete() {
	s.mu.Lock()
	if s.agg == nil {
		s.mu.Unlock()
		return
	}
	s.renderFinished = true
	view, ok := s.tryCompleteLocked()
	s.mu.Unlock()

	if ok {
		s.publish(view)
	}
}

// onToolsDisplayed is the tracker's aggregate signal. If the renderer already
// finished the answer text while tool activity was still displaying, the
// completion gate opens now.
func (s *Session) onToolsDisplayed(messageID string) {
	s.mu.Lock()
	if s.messageID != messageID || s.agg == nil {
		s.mu.Unlock()
		return
	}
	view, ok := s.tryCompleteLocked()
	if !ok {
		view = s.buildViewLocked(s.agg.Process(s.messageID, s.lastPackets))
	}
	s.mu.Unlock()

	s.publish(view)
}

func (s *Session) tryCompleteLocked() (View, bool) {
	if s.displayDone || !s.renderFinished || !s.tracker.AllDisplayed() {
		return View{}, false
	}
	if !s.agg.CompleteDisplay() {
		return View{}, false
	}
	s.displayDone = true
	return s.buildViewLocked(s.agg.Process(s.messageID, s.lastPackets)), true
}

func (s *Session) buildViewLocked(snap aggregator.Snapshot) View {
	return View{
		MessageID:      s.messageID,
		Snapshot:       snap,
		ToolStatus:     s.tracker.Statuses(),
		ToolsDisplayed: s.tracker.AllDisplayed(),
	}
}

func (s *Session) publish(view View) {
	if s.onUpdate != nil {
		s.onUpdate(view)
	}
}

// Current returns the latest view without folding anything new.
func (s *Session) Current() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg == nil {
		return View{}, false
	}
	return s.buildViewLocked(s.agg.Process(s.messageID, s.lastPackets)), true
}

// Close tears down the current identity and cancels all pending timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker != nil {
		s.tracker.Stop()
		s.tracker = nil
	}
	s.agg = nil
	s.lastPackets = nil
}
