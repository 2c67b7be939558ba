package etree

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/structguard/structguard"
)

// candidate is one maximal character-data run found in document order,
// before whitespace and policy filtering.
type candidate struct {
	path    string
	kind    structguard.NodeKind
	tag     string
	attrs   map[string]string
	text    string
	isCDATA bool
}

// collectCandidates walks the element tree in document order and returns
// every text and tail run. Runs that follow comments or processing
// instructions have no owning element and are not candidates; they stay
// untouched in the skeleton.
func collectCandidates(root *etree.Element) []candidate {
	var out []candidate
	walk(root, root.FullTag(), &out)
	return out
}

func walk(e *etree.Element, path string, out *[]candidate) {
	if text, isCData, ok := charRun(e.Child, 0); ok {
		*out = append(*out, candidate{
			path:    path,
			kind:    structguard.KindText,
			tag:     e.FullTag(),
			attrs:   attrMap(e),
			text:    text,
			isCDATA: isCData,
		})
	}

	// Positional suffixes are only added where same-tag siblings would
	// otherwise make paths ambiguous.
	totals := make(map[string]int)
	for _, tok := range e.Child {
		if el, ok := tok.(*etree.Element); ok {
			totals[el.FullTag()]++
		}
	}
	seen := make(map[string]int)

	for i, tok := range e.Child {
		child, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		tag := child.FullTag()
		seen[tag]++
		step := tag
		if totals[tag] > 1 {
			step = fmt.Sprintf("%s[%d]", tag, seen[tag])
		}
		childPath := path + "/" + step
		walk(child, childPath, out)

		// character data after the child's end tag is its tail
		if text, isCData, ok := charRun(e.Child, i+1); ok {
			*out = append(*out, candidate{
				path:    childPath,
				kind:    structguard.KindTail,
				tag:     tag,
				attrs:   attrMap(child),
				text:    text,
				isCDATA: isCData,
			})
		}
	}
}

// charRun returns the decoded text of the maximal character-data run
// starting at index from of tokens, and whether any part of the run is a
// CDATA section. ok is false when no character data starts there.
func charRun(tokens []etree.Token, from int) (text string, isCDATA bool, ok bool) {
	var sb strings.Builder
	for i := from; i < len(tokens); i++ {
		cd, isChar := tokens[i].(*etree.CharData)
		if !isChar {
			break
		}
		sb.WriteString(cd.Data)
		if cd.IsCData() {
			isCDATA = true
		}
		ok = true
	}
	return sb.String(), isCDATA, ok
}

func attrMap(e *etree.Element) map[string]string {
	if len(e.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(e.Attr))
	for _, a := range e.Attr {
		m[a.FullKey()] = a.Value
	}
	return m
}

// buildNodes filters candidates down to the extractable node set:
// whitespace-only runs are skipped, the policy selects the rest, and IDs
// are assigned in walk order. The returned index slice maps each node
// back to its candidate position for offset lookup during injection.
func buildNodes(cands []candidate, policy structguard.SelectionPolicy) ([]structguard.Node, []int) {
	var nodes []structguard.Node
	var indexes []int
	for i, c := range cands {
		core := strings.TrimSpace(c.text)
		if core == "" {
			continue
		}
		if !policy.Extractable(c.tag, c.path, c.attrs) {
			continue
		}
		nodes = append(nodes, structguard.Node{
			NodeInfo: structguard.NodeInfo{
				ID:      fmt.Sprintf("node_%d", len(nodes)),
				Path:    c.path,
				Kind:    c.kind,
				Tag:     c.tag,
				Attrib:  c.attrs,
				IsCDATA: c.isCDATA,
			},
			Text: core,
		})
		indexes = append(indexes, i)
	}
	return nodes, indexes
}
