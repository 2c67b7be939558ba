package structguard

import "encoding/json"

// MetadataBundle carries everything injection needs to rebuild a document:
// the untouched original content (the skeleton), the per-node descriptors,
// and enough provenance to detect tampering or a policy mismatch. The
// engine keeps no state between extract and inject; the caller holds the
// bundle and presents it back.
type MetadataBundle struct {
	// ExtractionID uniquely identifies the extraction that produced this
	// bundle.
	ExtractionID string `json:"extraction_id"`

	// Format is the source document format.
	Format Format `json:"format"`

	// Profile names the selection policy used at extraction. Injection
	// compares it against any explicitly supplied policy to distinguish a
	// policy mismatch from bundle corruption.
	Profile string `json:"profile"`

	// OriginalContent is the source document, byte for byte. Injection
	// re-parses it, so unedited regions are never rewritten.
	OriginalContent string `json:"original_content"`

	// ContentHash is the hex-encoded xxhash digest of OriginalContent.
	ContentHash string `json:"content_hash"`

	// NodeInfo lists the extracted segment descriptors in traversal order.
	// It has the same length and order as the flat map.
	NodeInfo []NodeInfo `json:"node_info"`

	// RootTag and RootAttrib describe the document element (XML only).
	RootTag    string            `json:"root_tag,omitempty"`
	RootAttrib map[string]string `json:"root_attrib,omitempty"`

	// OriginalStructure is the parsed document as raw JSON (JSON only).
	// Kept so a bundle remains self-describing even when OriginalContent
	// is stripped by a caller; injection prefers OriginalContent.
	OriginalStructure json.RawMessage `json:"original_structure,omitempty"`
}

// Validate returns an error if the bundle is missing required fields.
func (b *MetadataBundle) Validate() error {
	if b.Format != FormatXML && b.Format != FormatJSON {
		return Errorf(EINVALID, "bundle format must be 'xml' or 'json', got %q", b.Format)
	}
	if b.OriginalContent == "" && len(b.OriginalStructure) == 0 {
		return Errorf(EINVALID, "bundle carries no original content")
	}
	for i, info := range b.NodeInfo {
		if info.ID == "" {
			return Errorf(EINVALID, "bundle node_info[%d] missing key", i)
		}
	}
	return nil
}

// Skeleton returns the document injection should rebuild from: the
// original content when present, otherwise the stored raw structure.
func (b *MetadataBundle) Skeleton() string {
	if b.OriginalContent != "" {
		return b.OriginalContent
	}
	return string(b.OriginalStructure)
}

// ExtractionResult pairs the editable flat map with the metadata bundle
// that reconstructs the document around it.
type ExtractionResult struct {
	FlatMap  *FlatMap        `json:"flat_map"`
	Metadata *MetadataBundle `json:"metadata"`
}
