package aggregator

import (
	"sort"

	"github.com/tessera-io/tessera/pkg/protocol"
)

// Aggregator folds the raw packet stream of one assistant message into a
// renderable snapshot: ind-ordered groups, deduplicated citations, a
// referenced-document index and the completion flags.
//
// The transport hands over the WHOLE packet slice on every update, so
// Process diffs against a cursor to find the unprocessed suffix. State is
// owned exclusively by this value and mutated only inside Process and
// CompleteDisplay.
type Aggregator struct {
	messageID string

	lastProcessed int
	citations     []protocol.Citation
	seenCitedDocs map[string]struct{}
	documents     map[string]protocol.Document
	groupOrder    []int
	groups        map[int][]protocol.Packet

	finalAnswerComing bool
	stopSeen          bool
	displayComplete   bool
}

// Snapshot is the renderable view of one message at a point in time. Groups
// are ordered by ind ascending; slices and maps are copies, never aliased to
// the aggregator's own state.
type Snapshot struct {
	Groups            []protocol.Group
	Citations         []protocol.Citation
	DocumentIndex     map[string]protocol.Document
	FinalAnswerComing bool
	StopSeen          bool
	DisplayComplete   bool
}

// New creates an aggregator with no render target bound yet. The first call
// to Process binds it.
func New() *Aggregator {
	a := &Aggregator{}
	a.reset("")
	return a
}

func (a *Aggregator) reset(messageID string) {
	a.messageID = messageID
	a.lastProcessed = 0
	a.citations = nil
	a.seenCitedDocs = make(map[string]struct{})
	a.documents = make(map[string]protocol.Document)
	a.groupOrder = nil
	a.groups = make(map[int][]protocol.Packet)
	a.finalAnswerComing = false
	a.stopSeen = false
	a.displayComplete = false
}

// Process folds every packet the aggregator has not seen yet and returns a
// fresh snapshot. Calling it again with the same input is a no-op fold that
// returns an equal snapshot.
//
// If the target identity changed, or the sequence is shorter than what was
// already processed (the transport replaced the stream, e.g. on a retry),
// all state is discarded and the sequence reprocessed from the start.
func (a *Aggregator) Process(messageID string, packets []protocol.Packet) Snapshot {
	if messageID != a.messageID || len(packets) < a.lastProcessed {
		a.reset(messageID)
	}

	for _, pkt := range packets[a.lastProcessed:] {
		a.fold(pkt)
	}
	a.lastProcessed = len(packets)

	return a.snapshot()
}

// fold applies one packet's effect. Packets are folded strictly in arrival
// order so the interleaving correction sees the exact sequence.
func (a *Aggregator) fold(pkt protocol.Packet) {
	if _, ok := a.groups[pkt.Ind]; !ok {
		a.groupOrder = append(a.groupOrder, pkt.Ind)
	}
	a.groups[pkt.Ind] = append(a.groups[pkt.Ind], pkt)

	switch pkt.Obj.Type {
	case protocol.CitationDelta:
		// First citation of a document wins; repeats are dropped.
		for _, c := range pkt.Obj.Citations {
			if _, seen := a.seenCitedDocs[c.DocumentID]; seen {
				continue
			}
			a.seenCitedDocs[c.DocumentID] = struct{}{}
			a.citations = append(a.citations, c)
		}

	case protocol.SearchToolDelta, protocol.FetchToolStart:
		// Unlike citations, the document index is last-write-wins: later
		// tool deltas can enrich a document already observed.
		for _, d := range pkt.Obj.Documents {
			if d.DocumentID == "" {
				continue
			}
			a.documents[d.DocumentID] = d
		}
	}

	if pkt.Obj.Type.IsFinalAnswerKind() {
		a.finalAnswerComing = true
	}

	if pkt.Obj.Type == protocol.Stop && !a.stopSeen {
		a.stopSeen = true
	}

	// Interleaving correction: a tool packet arriving after answer content
	// appeared to begin, but before the stream formally ended, reverts the
	// answer framing. Some backends emit a stray tool call mid-message.
	if a.finalAnswerComing && !a.stopSeen && a.groupIsTool(pkt.Ind) {
		a.finalAnswerComing = false
		a.displayComplete = false
	}
}

func (a *Aggregator) groupIsTool(ind int) bool {
	packets := a.groups[ind]
	return len(packets) > 0 && packets[0].Obj.Type.IsToolKind()
}

// CompleteDisplay records that the rendering of the last display group
// finished. displayComplete is only set if the answer framing still holds;
// the interleaving revert always wins over a late completion callback.
// Returns the resulting displayComplete value.
func (a *Aggregator) CompleteDisplay() bool {
	if a.finalAnswerComing {
		a.displayComplete = true
	}
	return a.displayComplete
}

// MessageID returns the identity of the message currently bound.
func (a *Aggregator) MessageID() string {
	return a.messageID
}

// snapshot rebuilds the exposed view: groups sorted ascending by ind, every
// packet list cloned so callers never alias internal state.
func (a *Aggregator) snapshot() Snapshot {
	inds := make([]int, len(a.groupOrder))
	copy(inds, a.groupOrder)
	sort.Ints(inds)

	groups := make([]protocol.Group, 0, len(inds))
	for _, ind := range inds {
		packets := make([]protocol.Packet, len(a.groups[ind]))
		copy(packets, a.groups[ind])
		groups = append(groups, protocol.Group{Ind: ind, Packets: packets})
	}

	citations := make([]protocol.Citation, len(a.citations))
	copy(citations, a.citations)

	documents := make(map[string]protocol.Document, len(a.documents))
	for id, doc := range a.documents {
		documents[id] = doc
	}

	return Snapshot{
		Groups:            groups,
		Citations:         citations,
		DocumentIndex:     documents,
		FinalAnswerComing: a.finalAnswerComing,
		StopSeen:          a.stopSeen,
		DisplayComplete:   a.displayComplete,
	}
}
