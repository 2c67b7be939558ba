package structguard

import "fmt"

// VerifyDerivedNodes checks the node set an adapter re-derived from the
// skeleton against the descriptors recorded at extraction. Stored
// metadata is never trusted for addressing, so any disagreement refuses
// the whole injection. When the caller supplied an explicit policy whose
// name differs from the bundle's recorded profile, the disagreement is
// reported as EPOLICY; otherwise the skeleton and bundle no longer
// describe the same document and the error is ERECONSTRUCT.
func VerifyDerivedNodes(derived []Node, meta *MetadataBundle, policy SelectionPolicy, explicitPolicy bool) error {
	mismatch := func(id, path, detail string) error {
		if explicitPolicy && policy.Name() != meta.Profile {
			return &Error{
				Code: EPOLICY,
				Message: fmt.Sprintf("profile %q does not reproduce the %q extraction: %s",
					policy.Name(), meta.Profile, detail),
				NodeID: id,
				Path:   path,
			}
		}
		return &Error{
			Code:    ERECONSTRUCT,
			Message: "skeleton does not match extraction metadata: " + detail,
			NodeID:  id,
			Path:    path,
		}
	}

	if len(derived) != len(meta.NodeInfo) {
		return mismatch("", "", fmt.Sprintf("%d nodes derived, %d recorded", len(derived), len(meta.NodeInfo)))
	}
	for i, n := range derived {
		rec := meta.NodeInfo[i]
		if n.ID != rec.ID || n.Path != rec.Path || n.Kind != rec.Kind {
			return mismatch(rec.ID, rec.Path, fmt.Sprintf(
				"node %d derived as (%s %s %s) but recorded as (%s %s %s)",
				i, n.ID, n.Kind, n.Path, rec.ID, rec.Kind, rec.Path))
		}
	}
	return nil
}

// PlanEdits maps flat map entries onto derived nodes and returns only
// the real changes, keyed by node index. A key that addresses no derived
// node fails the whole call with ERECONSTRUCT: partial output is never
// produced. Entries whose text equals the derived text are dropped so
// that untouched nodes are never rewritten.
func PlanEdits(derived []Node, flatMap *FlatMap) (map[int]string, error) {
	byID := make(map[string]int, len(derived))
	for i, n := range derived {
		byID[n.ID] = i
	}
	edits := make(map[int]string)
	for _, id := range flatMap.IDs() {
		i, ok := byID[id]
		if !ok {
			return nil, &Error{
				Code:    ERECONSTRUCT,
				Message: fmt.Sprintf("%q does not address any extractable node in the skeleton", id),
				NodeID:  id,
			}
		}
		text, _ := flatMap.Get(id)
		if text != derived[i].Text {
			edits[i] = text
		}
	}
	return edits, nil
}
