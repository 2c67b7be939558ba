// Package structguard provides a structure-preserving extraction and
// injection engine for XML and JSON documents. It flattens the editable
// text of a document into an ordered map of opaque node IDs that a
// structure-blind editor (typically an LLM) can modify, then reconstructs
// the original document with only those text values changed. Tags,
// attributes, namespaces, CDATA sections and nesting survive untouched.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, sjson/, gemini/).
package structguard

// Version is the structguard release version reported by the CLI and the
// HTTP server's info endpoint.
const Version = "1.0.0"
