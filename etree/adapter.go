// Package etree implements the XML format adapter on top of the beevik/etree
// document model. The parsed tree is the structural authority (paths, tags,
// attributes, CDATA detection); injection itself works by byte surgery on
// the skeleton, so untouched regions round-trip without a single byte of
// drift.
package etree

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/structguard/structguard"
)

var _ structguard.Adapter = (*Adapter)(nil)

// Adapter implements structguard.Adapter for XML documents.
type Adapter struct {
	policies *structguard.PolicyRegistry
}

// NewAdapter creates an XML adapter that resolves bundle profiles against
// the given policy registry. If policies is nil, the built-in registry is
// used.
func NewAdapter(policies *structguard.PolicyRegistry) *Adapter {
	if policies == nil {
		policies = structguard.NewPolicyRegistry()
	}
	return &Adapter{policies: policies}
}

// Format returns structguard.FormatXML.
func (a *Adapter) Format() structguard.Format {
	return structguard.FormatXML
}

// Extract parses content strictly and returns every policy-selected text
// and tail segment, trimmed of surrounding whitespace, keyed node_0,
// node_1, ... in document order.
func (a *Adapter) Extract(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = structguard.GenericPolicy{}
	}

	doc, err := parse(content)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	nodes, _ := buildNodes(collectCandidates(root), policy)

	flat := structguard.NewFlatMap()
	info := make([]structguard.NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		flat.Set(n.ID, n.Text)
		info = append(info, n.NodeInfo)
	}

	return &structguard.ExtractionResult{
		FlatMap: flat,
		Metadata: &structguard.MetadataBundle{
			ExtractionID:    uuid.New().String(),
			Format:          structguard.FormatXML,
			Profile:         policy.Name(),
			OriginalContent: content,
			ContentHash:     contentHash(content),
			NodeInfo:        info,
			RootTag:         root.FullTag(),
			RootAttrib:      attrMap(root),
		},
	}, nil
}

// Inject rebuilds the document from the skeleton and the edited flat map.
// The node set is re-derived from the skeleton and cross-checked against
// the bundle before any byte is written; stored metadata is never trusted
// for addressing.
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

	doc, err := parse(skeleton)
	if err != nil {
		return "", err
	}
	cands := collectCandidates(doc.Root())
	nodes, candIndex := buildNodes(cands, policy)

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

	spans, err := scanSpans(skeleton)
	if err != nil {
		return "", err
	}
	if err := alignSpans(spans, cands); err != nil {
		return "", err
	}
	return applyEdits(skeleton, nodes, candIndex, spans, edits), nil
}

// injectPolicy picks the policy used to re-derive the node set: an
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

// parse reads content with strict settings. CDATA sections are kept
// distinct from plain character data so injection can re-wrap them.
func parse(content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		PreserveCData: true,
	}
	if err := doc.ReadFromString(content); err != nil {
		return nil, parseError(err)
	}
	if doc.Root() == nil {
		return nil, structguard.Errorf(structguard.EPARSE, "document has no root element")
	}
	return doc, nil
}

func parseError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &structguard.Error{
			Code:    structguard.EPARSE,
			Message: fmt.Sprintf("malformed XML: %s", syntaxErr.Msg),
			Line:    syntaxErr.Line,
		}
	}
	return structguard.Errorf(structguard.EPARSE, "malformed XML: %v", err)
}

// contentHash computes a hash of the content using xxhash.
func contentHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
