// Package sjson implements the JSON format adapter on tidwall's gjson and
// sjson. gjson drives an ordered walk of the document; sjson applies edits
// by byte surgery, so key order, whitespace, number formatting and every
// non-string leaf survive injection untouched. Re-marshaling through Go
// maps would sort keys and reformat numbers, which is exactly the kind of
// structural drift the engine exists to prevent.
package sjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/structguard/structguard"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var _ structguard.Adapter = (*Adapter)(nil)

// Adapter implements structguard.Adapter for JSON documents.
type Adapter struct {
	policies *structguard.PolicyRegistry
}

// NewAdapter creates a JSON adapter that resolves bundle profiles against
// the given policy registry. If policies is nil, the built-in registry is
// used.
func NewAdapter(policies *structguard.PolicyRegistry) *Adapter {
	if policies == nil {
		policies = structguard.NewPolicyRegistry()
	}
	return &Adapter{policies: policies}
}

// Format returns structguard.FormatJSON.
func (a *Adapter) Format() structguard.Format {
	return structguard.FormatJSON
}

// Extract walks the document in order and returns every policy-selected
// string leaf keyed node_0, node_1, ... Values are stored exactly as
// decoded; JSON strings are never trimmed. Numbers, booleans and nulls
// are structure, not text, and are never extracted.
func (a *Adapter) Extract(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = structguard.GenericPolicy{}
	}
	if err := validate(content); err != nil {
		return nil, err
	}

	leaves := collectLeaves(gjson.Parse(content))
	nodes, _ := buildNodes(leaves, policy)

	flat := structguard.NewFlatMap()
	info := make([]structguard.NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		flat.Set(n.ID, n.Text)
		info = append(info, n.NodeInfo)
	}

	return &structguard.ExtractionResult{
		FlatMap: flat,
		Metadata: &structguard.MetadataBundle{
			ExtractionID:      uuid.New().String(),
			Format:            structguard.FormatJSON,
			Profile:           policy.Name(),
			OriginalContent:   content,
			ContentHash:       contentHash(content),
			NodeInfo:          info,
			OriginalStructure: json.RawMessage(content),
		},
	}, nil
}

// Inject rebuilds the document from the skeleton and the edited flat map.
// The leaf set is re-derived from the skeleton and cross-checked against
// the bundle before any edit is applied.
func (a *Adapter) Inject(ctx context.Context, flatMap *structguard.FlatMap, meta *structguard.MetadataBundle, opts structguard.InjectOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if meta == nil {
		return "", structguard.Errorf(structguard.EINVALID, "metadata bundle required")
	}
	if err := meta.Validate(); err != nil {
		return "", err
	}
	if flatMap == nil {
		flatMap = structguard.NewFlatMap()
	}

	skeleton := opts.Skeleton
	if skeleton == "" {
		skeleton = meta.Skeleton()
		if meta.ContentHash != "" && meta.OriginalContent != "" && contentHash(skeleton) != meta.ContentHash {
			return "", structguard.Errorf(structguard.ERECONSTRUCT,
				"bundle content does not match its recorded hash")
		}
	}

	policy, err := a.injectPolicy(meta, opts)
	if err != nil {
		return "", err
	}
	if err := validate(skeleton); err != nil {
		return "", err
	}

	leaves := collectLeaves(gjson.Parse(skeleton))
	nodes, leafIndex := buildNodes(leaves, policy)

	if err := structguard.VerifyDerivedNodes(nodes, meta, policy, opts.Policy != nil); err != nil {
		return "", err
	}
	edits, err := structguard.PlanEdits(nodes, flatMap)
	if err != nil {
		return "", err
	}
	if len(edits) == 0 {
		return skeleton, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	indexes := make([]int, 0, len(edits))
	for i := range edits {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := skeleton
	for _, i := range indexes {
		lf := leaves[leafIndex[i]]
		if lf.setPath == "" {
			// the whole document is a single string
			enc, err := encodeString(edits[i])
			if err != nil {
				return "", structguard.Errorf(structguard.EINTERNAL, "encode root value: %v", err)
			}
			out = enc
			continue
		}
		out, err = sjson.Set(out, lf.setPath, edits[i])
		if err != nil {
			return "", structguard.Errorf(structguard.EINTERNAL, "apply edit at %q: %v", lf.display, err)
		}
	}
	return out, nil
}

// injectPolicy picks the policy used to re-derive the leaf set: an
// explicit override wins, otherwise the profile recorded in the bundle.
func (a *Adapter) injectPolicy(meta *structguard.MetadataBundle, opts structguard.InjectOptions) (structguard.SelectionPolicy, error) {
	if opts.Policy != nil {
		return opts.Policy, nil
	}
	if meta.Profile == "" {
		return structguard.GenericPolicy{}, nil
	}
	return a.policies.Get(meta.Profile)
}

// validate runs the document through the standard decoder, which reports
// byte offsets for malformed input, and rejects trailing data the way a
// strict parser would. gjson itself is permissive, so it only ever sees
// documents that passed here.
func validate(content string) error {
	dec := json.NewDecoder(strings.NewReader(content))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return parseError(content, err)
	}
	if dec.More() {
		return structguard.Errorf(structguard.EPARSE, "malformed JSON: unexpected data after top-level value")
	}
	return nil
}

func parseError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset := int(syntaxErr.Offset)
		if offset > len(content) {
			offset = len(content)
		}
		return &structguard.Error{
			Code:    structguard.EPARSE,
			Message: fmt.Sprintf("malformed JSON: %s", syntaxErr.Error()),
			Line:    1 + strings.Count(content[:offset], "\n"),
		}
	}
	return structguard.Errorf(structguard.EPARSE, "malformed JSON: %v", err)
}

// encodeString marshals a bare JSON string without HTML escaping,
// matching how sjson writes nested string values.
func encodeString(s string) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// contentHash computes a hash of the content using xxhash.
func contentHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
