package sjson

import (
	"fmt"
	"strconv"

	"github.com/structguard/structguard"
	"github.com/tidwall/gjson"
)

// leaf is one string value of the document, in document order.
type leaf struct {
	// display is the path recorded in node metadata: dotted keys with
	// bracketed array indices, e.g. "user.skills[1]". The root scalar
	// has the empty path.
	display string
	// setPath is the same location in sjson syntax: dotted components
	// with escaped special characters, e.g. "user.skills.1".
	setPath string
	// tag is the final key, or the array index as a decimal string.
	tag   string
	value string
}

// collectLeaves walks the parsed document depth-first and returns every
// string leaf in the order it appears. gjson's ForEach preserves the
// document's key order, which is what keeps node numbering stable.
func collectLeaves(root gjson.Result) []leaf {
	var out []leaf
	walkValue(root, "", "", "", &out)
	return out
}

func walkValue(v gjson.Result, display, setPath, tag string, out *[]leaf) {
	switch {
	case v.IsObject():
		v.ForEach(func(key, val gjson.Result) bool {
			k := key.String()
			d := k
			if display != "" {
				d = display + "." + k
			}
			s := escapeSetKey(k)
			if setPath != "" {
				s = setPath + "." + s
			}
			walkValue(val, d, s, k, out)
			return true
		})
	case v.IsArray():
		i := 0
		v.ForEach(func(_, val gjson.Result) bool {
			idx := strconv.Itoa(i)
			d := fmt.Sprintf("%s[%d]", display, i)
			s := idx
			if setPath != "" {
				s = setPath + "." + idx
			}
			walkValue(val, d, s, idx, out)
			i++
			return true
		})
	case v.Type == gjson.String:
		*out = append(*out, leaf{display: display, setPath: setPath, tag: tag, value: v.String()})
	}
}

// buildNodes filters the leaves through the selection policy and assigns
// sequential ids. It returns the nodes plus, for each node, the index of
// the leaf it came from. Empty strings are real nodes: an empty caption
// is still a caption.
func buildNodes(leaves []leaf, policy structguard.SelectionPolicy) ([]structguard.Node, []int) {
	var nodes []structguard.Node
	var indexes []int
	for i, lf := range leaves {
		if !policy.Extractable(lf.tag, lf.display, nil) {
			continue
		}
		nodes = append(nodes, structguard.Node{
			NodeInfo: structguard.NodeInfo{
				ID:        fmt.Sprintf("node_%d", len(nodes)),
				Path:      lf.display,
				Kind:      structguard.KindText,
				Tag:       lf.tag,
				ValueType: "string",
			},
			Text: lf.value,
		})
		indexes = append(indexes, i)
	}
	return nodes, indexes
}

// escapeSetKey backslash-escapes the characters gjson and sjson treat as
// path syntax so object keys containing them address literally.
func escapeSetKey(k string) string {
	escaped := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '\\', '.', '|', '#', '@', '*', '?':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, k[i])
	}
	return string(escaped)
}
