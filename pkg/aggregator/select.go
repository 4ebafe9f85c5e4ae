package aggregator

import "github.com/tessera-io/tessera/pkg/protocol"

// Derived selection helpers. These are pure functions over a snapshot's
// groups; nothing here is stored back into the aggregator.

// ToolGroups returns the groups rendering as tool activity.
func ToolGroups(groups []protocol.Group) []protocol.Group {
	var tools []protocol.Group
	for _, g := range groups {
		if g.IsTool() {
			tools = append(tools, g)
		}
	}
	return tools
}

// DisplayGroups returns the groups rendering as answer content. Display
// content is shown at all only once the final answer is coming, or when the
// message has no tool activity to show instead.
func DisplayGroups(groups []protocol.Group, finalAnswerComing bool) []protocol.Group {
	if !finalAnswerComing && len(ToolGroups(groups)) > 0 {
		return nil
	}
	var display []protocol.Group
	for _, g := range groups {
		if len(g.Packets) > 0 && !g.IsTool() {
			display = append(display, g)
		}
	}
	return display
}

// CurrentAnswerGroup returns the group rendered as the current answer: the
// last display group in ascending-ind order, if any.
func CurrentAnswerGroup(groups []protocol.Group, finalAnswerComing bool) (protocol.Group, bool) {
	display := DisplayGroups(groups, finalAnswerComing)
	if len(display) == 0 {
		return protocol.Group{}, false
	}
	return display[len(display)-1], true
}
