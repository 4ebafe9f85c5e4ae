package protocol

// PacketType tags the payload union of a Packet. The backend emits one of
// these on every stream frame.
type PacketType string

const (
	// Lifecycle packets
	MessageStart PacketType = "message_start"
	MessageDelta PacketType = "message_delta"
	SectionEnd   PacketType = "section_end"
	Stop         PacketType = "stop"

	// Citation packets
	CitationDelta PacketType = "citation_delta"

	// Search/fetch tool packets
	SearchToolStart PacketType = "search_tool_start"
	SearchToolDelta PacketType = "search_tool_delta"
	FetchToolStart  PacketType = "fetch_tool_start"

	// Image-generation tool packets
	ImageToolStart PacketType = "image_generation_tool_start"
	ImageToolDelta PacketType = "image_generation_tool_delta"
)

// Packet is one event in the append-only protocol stream. Multiple packets
// can share an Ind; they form one renderable group.
type Packet struct {
	Ind int       `json:"ind"`
	Obj PacketObj `json:"obj"`
}

// PacketObj is the typed payload of a packet. Type selects which of the
// optional fields carry data; the rest are zero.
type PacketObj struct {
	Type PacketType `json:"type"`

	// MESSAGE_DELTA text content
	Content string `json:"content,omitempty"`

	// CITATION_DELTA entries
	Citations []Citation `json:"citations,omitempty"`

	// SEARCH_TOOL_START
	IsInternetSearch bool `json:"is_internet_search,omitempty"`

	// SEARCH_TOOL_DELTA / FETCH_TOOL_START
	Queries   []string   `json:"queries,omitempty"`
	Documents []Document `json:"documents,omitempty"`

	// IMAGE_GENERATION_TOOL_DELTA
	Images []GeneratedImage `json:"images,omitempty"`
}

// Document is a source referenced by the assistant's answer. Identity is
// DocumentID.
type Document struct {
	DocumentID         string `json:"document_id"`
	SemanticIdentifier string `json:"semantic_identifier,omitempty"`
	Link               string `json:"link,omitempty"`
	SourceType         string `json:"source_type,omitempty"`
	IsInternet         bool   `json:"is_internet,omitempty"`
	Blurb              string `json:"blurb,omitempty"`
}

// Citation links an inline [n] marker in the answer text to a document.
type Citation struct {
	CitationNum int    `json:"citation_num"`
	DocumentID  string `json:"document_id"`
}

// GeneratedImage is one output of an image-generation tool invocation.
type GeneratedImage struct {
	FileID string `json:"file_id"`
	URL    string `json:"url,omitempty"`
}

// IsToolKind reports whether t opens or advances a tool invocation. A group
// whose first packet is tool-kind renders as tool activity, not answer text.
func (t PacketType) IsToolKind() bool {
	switch t {
	case SearchToolStart, SearchToolDelta, FetchToolStart, ImageToolStart:
		return true
	}
	return false
}

// IsDisplayKind reports whether t carries renderable answer content
// (prose or generated images).
func (t PacketType) IsDisplayKind() bool {
	switch t {
	case MessageStart, MessageDelta, ImageToolDelta:
		return true
	}
	return false
}

// IsFinalAnswerKind reports whether observing t means the assistant's actual
// reply has started arriving.
func (t PacketType) IsFinalAnswerKind() bool {
	switch t {
	case MessageStart, MessageDelta, ImageToolStart, ImageToolDelta:
		return true
	}
	return false
}

// IsTerminalKind reports whether t closes the section it belongs to.
func (t PacketType) IsTerminalKind() bool {
	return t == SectionEnd || t == Stop
}
