package protocol

import "strings"

// Group is all packets sharing one ind, in arrival order. A group is either
// tool activity or display content, decided by its first packet.
type Group struct {
	Ind     int
	Packets []Packet
}

// IsTool reports whether this group renders as tool activity.
func (g Group) IsTool() bool {
	return len(g.Packets) > 0 && g.Packets[0].Obj.Type.IsToolKind()
}

// HasToolStart reports whether a tool-start packet has been observed in this
// group.
func (g Group) HasToolStart() bool {
	for _, p := range g.Packets {
		switch p.Obj.Type {
		case SearchToolStart, FetchToolStart, ImageToolStart:
			return true
		}
	}
	return false
}

// HasEnd reports whether a terminal packet (SECTION_END or STOP) has been
// observed in this group.
func (g Group) HasEnd() bool {
	for _, p := range g.Packets {
		if p.Obj.Type.IsTerminalKind() {
			return true
		}
	}
	return false
}

// IsInternetSearch reports whether this group's tool invocation searched the
// public internet rather than connected sources.
func (g Group) IsInternetSearch() bool {
	for _, p := range g.Packets {
		if p.Obj.Type == SearchToolStart {
			return p.Obj.IsInternetSearch
		}
	}
	return false
}

// Queries collects every query string carried by the group's tool deltas.
func (g Group) Queries() []string {
	var queries []string
	for _, p := range g.Packets {
		queries = append(queries, p.Obj.Queries...)
	}
	return queries
}

// Documents collects every document carried by the group's tool packets, in
// arrival order. Duplicate ids are kept; callers that need identity use the
// aggregator's document index instead.
func (g Group) Documents() []Document {
	var docs []Document
	for _, p := range g.Packets {
		docs = append(docs, p.Obj.Documents...)
	}
	return docs
}

// Text concatenates the message-delta content of the group.
func (g Group) Text() string {
	var b strings.Builder
	for _, p := range g.Packets {
		if p.Obj.Type == MessageDelta {
			b.WriteString(p.Obj.Content)
		}
	}
	return b.String()
}

// Images collects generated images carried by the group's image deltas.
func (g Group) Images() []GeneratedImage {
	var images []GeneratedImage
	for _, p := range g.Packets {
		images = append(images, p.Obj.Images...)
	}
	return images
}
