package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessera-io/tessera/pkg/aggregator"
	"github.com/tessera-io/tessera/pkg/protocol"
	"github.com/tessera-io/tessera/pkg/session"
)

// Output prints a rendered view as styled text
type Output struct {
	w io.Writer

	toolStyle     lipgloss.Style
	answerStyle   lipgloss.Style
	headerStyle   lipgloss.Style
	citationStyle lipgloss.Style
	dimStyle      lipgloss.Style
}

// NewOutput creates an output handler writing to w
func NewOutput(w io.Writer) *Output {
	return &Output{
		w:             w,
		toolStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		answerStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		headerStyle:   lipgloss.NewStyle().Bold(true),
		citationStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Print renders the final state of one reply
func (o *Output) Print(view session.View) {
	snap := view.Snapshot

	for _, g := range aggregator.ToolGroups(snap.Groups) {
		fmt.Fprintln(o.w, o.toolStyle.Render("✓ "+toolSummary(g)))
	}

	if answer, ok := aggregator.CurrentAnswerGroup(snap.Groups, snap.FinalAnswerComing); ok {
		if text := answer.Text(); text != "" {
			fmt.Fprintln(o.w, o.answerStyle.Render(text))
		}
		for _, img := range answer.Images() {
			ref := img.URL
			if ref == "" {
				ref = img.FileID
			}
			fmt.Fprintln(o.w, o.dimStyle.Render("[image: "+ref+"]"))
		}
	}

	o.printCitations(snap)
}

func (o *Output) printCitations(snap aggregator.Snapshot) {
	if len(snap.Citations) == 0 {
		return
	}

	fmt.Fprintln(o.w)
	fmt.Fprintln(o.w, o.headerStyle.Render("Citations"))
	for _, c := range snap.Citations {
		marker := fmt.Sprintf("[%d] ", c.CitationNum)
		doc, ok := snap.DocumentIndex[c.DocumentID]
		if !ok {
			fmt.Fprintln(o.w, o.dimStyle.Render(marker+"unknown source ("+c.DocumentID+")"))
			continue
		}
		line := marker + documentTitle(doc)
		if doc.Link != "" && doc.SemanticIdentifier != "" {
			line += " (" + doc.Link + ")"
		}
		fmt.Fprintln(o.w, o.citationStyle.Render(line))
	}
}

func toolSummary(g protocol.Group) string {
	switch g.Packets[0].Obj.Type {
	case protocol.FetchToolStart:
		return fmt.Sprintf("Read %d documents", len(g.Documents()))
	case protocol.ImageToolStart:
		return "Generated image"
	default:
		if queries := g.Queries(); len(queries) > 0 {
			return fmt.Sprintf("Searched for: %s (%d sources)", strings.Join(queries, ", "), len(g.Documents()))
		}
		return fmt.Sprintf("Searched %d sources", len(g.Documents()))
	}
}

func documentTitle(doc protocol.Document) string {
	if doc.SemanticIdentifier != "" {
		return doc.SemanticIdentifier
	}
	if doc.Link != "" {
		return doc.Link
	}
	return doc.DocumentID
}
