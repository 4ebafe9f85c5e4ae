package tui

import (
	"fmt"
	"strings"

	"github.com/tessera-io/tessera/pkg/aggregator"
	"github.com/tessera-io/tessera/pkg/protocol"
	"github.com/tessera-io/tessera/pkg/session"
)

// Spinner frames for tool activity indication
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ReplyView renders one assistant reply: tool activity lines first, then the
// current answer with its citations and referenced documents.
type ReplyView struct {
	width         int
	showDocuments bool
	spinnerFrame  int
	formatter     *MarkdownFormatter
}

// NewReplyView creates a view rendering at the given width
func NewReplyView(width int, showDocuments bool) *ReplyView {
	return &ReplyView{
		width:         width,
		showDocuments: showDocuments,
		formatter:     NewMarkdownFormatter(width),
	}
}

// SetWidth adjusts the wrap width after a terminal resize
func (rv *ReplyView) SetWidth(width int) {
	rv.width = width
	rv.formatter = NewMarkdownFormatter(width)
}

// Tick advances the spinner one frame
func (rv *ReplyView) Tick() {
	rv.spinnerFrame = (rv.spinnerFrame + 1) % len(spinnerFrames)
}

// Render produces the terminal lines for the current view state
func (rv *ReplyView) Render(view session.View) []Line {
	var lines []Line

	snap := view.Snapshot
	for _, g := range aggregator.ToolGroups(snap.Groups) {
		lines = append(lines, rv.toolLine(g, view.ToolStatus[g.Ind]))
	}

	if answer, ok := aggregator.CurrentAnswerGroup(snap.Groups, snap.FinalAnswerComing); ok {
		if len(lines) > 0 {
			lines = append(lines, Line{})
		}
		lines = append(lines, rv.answerLines(answer)...)
		lines = append(lines, rv.citationLines(snap.Citations, snap.DocumentIndex)...)
	}

	if rv.showDocuments && len(snap.DocumentIndex) > 0 && snap.FinalAnswerComing {
		lines = append(lines, rv.documentLines(snap)...)
	}

	return lines
}

// toolLine renders one tool group's activity according to its display status.
// A group whose scheduler has finished (or was never tracked) shows the final
// summary form.
func (rv *ReplyView) toolLine(g protocol.Group, status string) Line {
	first := g.Packets[0].Obj.Type

	switch status {
	case "searching":
		label := rv.searchingLabel(g, first)
		return Line{Spans: []Span{
			{Text: spinnerFrames[rv.spinnerFrame] + " ", Style: StyleStatusBusy},
			{Text: label, Style: StyleToolText},
		}}
	default: // "searched" and finished groups share the summary form
		return Line{Spans: []Span{
			{Text: "✓ ", Style: StyleToolDone},
			{Text: rv.searchedLabel(g, first), Style: StyleToolDone},
		}}
	}
}

func (rv *ReplyView) searchingLabel(g protocol.Group, first protocol.PacketType) string {
	switch first {
	case protocol.FetchToolStart:
		return fmt.Sprintf("Reading %d documents...", len(g.Documents()))
	case protocol.ImageToolStart:
		return "Generating image..."
	default:
		target := "connected sources"
		if g.IsInternetSearch() {
			target = "the web"
		}
		if queries := g.Queries(); len(queries) > 0 {
			return fmt.Sprintf("Searching %s for: %s", target, strings.Join(queries, ", "))
		}
		return fmt.Sprintf("Searching %s...", target)
	}
}

func (rv *ReplyView) searchedLabel(g protocol.Group, first protocol.PacketType) string {
	switch first {
	case protocol.FetchToolStart:
		return fmt.Sprintf("Read %d documents", len(g.Documents()))
	case protocol.ImageToolStart:
		return "Generated image"
	default:
		return fmt.Sprintf("Searched %d sources", len(g.Documents()))
	}
}

func (rv *ReplyView) answerLines(answer protocol.Group) []Line {
	var lines []Line

	if text := answer.Text(); text != "" {
		lines = append(lines, rv.formatter.Format(text)...)
	}
	for _, img := range answer.Images() {
		ref := img.URL
		if ref == "" {
			ref = img.FileID
		}
		lines = append(lines, plainLine(fmt.Sprintf("[image: %s]", ref), StyleDimText))
	}
	return lines
}

// citationLines maps the deduplicated citation list onto its documents. A
// citation whose document never showed up in a tool delta falls back to its
// raw id rather than being dropped.
func (rv *ReplyView) citationLines(citations []protocol.Citation, index map[string]protocol.Document) []Line {
	if len(citations) == 0 {
		return nil
	}

	lines := []Line{{}, plainLine("Citations", StyleHeaderText)}
	for _, c := range citations {
		marker := fmt.Sprintf("[%d] ", c.CitationNum)
		doc, ok := index[c.DocumentID]
		if !ok {
			lines = append(lines, Line{Spans: []Span{
				{Text: marker, Style: StyleCitationText},
				{Text: fmt.Sprintf("unknown source (%s)", c.DocumentID), Style: StyleDimText},
			}})
			continue
		}
		lines = append(lines, Line{Spans: []Span{
			{Text: marker, Style: StyleCitationText},
			{Text: documentTitle(doc), Style: StyleCitationText},
			{Text: linkSuffix(doc), Style: StyleDimText},
		}})
	}
	return lines
}

func (rv *ReplyView) documentLines(snap aggregator.Snapshot) []Line {
	lines := []Line{{}, plainLine("Sources", StyleHeaderText)}

	// walk groups rather than the index map for a stable order
	seen := make(map[string]struct{})
	for _, g := range aggregator.ToolGroups(snap.Groups) {
		for _, d := range g.Documents() {
			if d.DocumentID == "" {
				continue
			}
			if _, dup := seen[d.DocumentID]; dup {
				continue
			}
			seen[d.DocumentID] = struct{}{}
			doc := snap.DocumentIndex[d.DocumentID]
			lines = append(lines, Line{Spans: []Span{
				{Text: "• ", Style: StyleDocumentText},
				{Text: documentTitle(doc), Style: StyleDocumentText},
				{Text: linkSuffix(doc), Style: StyleDimText},
			}})
		}
	}
	return lines
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

func linkSuffix(doc protocol.Document) string {
	if doc.Link == "" || doc.SemanticIdentifier == "" {
		return ""
	}
	return " (" + doc.Link + ")"
}
