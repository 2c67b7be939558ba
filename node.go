package structguard

// NodeKind classifies where a text segment lives in the source document.
type NodeKind string

const (
	// KindText is element text content in XML, or a string leaf in JSON.
	KindText NodeKind = "text"
	// KindTail is XML trailing text: character data that follows a child
	// element inside its parent, as in <p>before<b>x</b> after</p>.
	KindTail NodeKind = "tail"
)

// NodeInfo describes where an extracted segment came from. The engine
// stores one NodeInfo per flat map entry, in the same order, and re-derives
// the same descriptors from the skeleton at injection time to cross-check
// them before writing anything.
type NodeInfo struct {
	// ID is the stable identifier: node_0, node_1, ... in traversal order.
	ID string `json:"key"`

	// Path addresses the element (XML) or leaf (JSON) that owns the
	// segment. XML paths are slash-joined tag chains from the root with a
	// 1-based [k] suffix only where same-tag siblings make them ambiguous,
	// e.g. "rss/channel/item[2]/title". JSON paths are dotted key chains
	// with bracketed array indices, e.g. "user.skills[1]".
	Path string `json:"path"`

	// Kind is KindText for element/leaf content, KindTail for XML trailing
	// text. JSON nodes are always KindText.
	Kind NodeKind `json:"type"`

	// Tag is the prefixed tag of the XML element the text belongs to; for
	// tails it is the tag of the element the text follows. For JSON nodes
	// it is the final key or array index of the leaf.
	Tag string `json:"tag,omitempty"`

	// Attrib holds the owning element's attributes (XML only).
	Attrib map[string]string `json:"attrib,omitempty"`

	// IsCDATA records whether the segment was wrapped in a CDATA section.
	// Injection re-wraps edited text the same way.
	IsCDATA bool `json:"is_cdata,omitempty"`

	// ValueType is "string" for JSON nodes. Non-string JSON leaves are
	// never extracted.
	ValueType string `json:"value_type,omitempty"`
}

// Node is a traversal product: a segment descriptor plus the text it
// carried in the source document.
type Node struct {
	NodeInfo
	Text string
}
