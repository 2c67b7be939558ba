package structguard

import "sort"

// Profile names for the built-in selection policies.
const (
	ProfileGeneric   = "generic"
	ProfileWordPress = "wordpress"
)

// SelectionPolicy decides which text-bearing nodes of a document are
// offered for editing. Everything the policy rejects stays invisible to
// the editor and is never touched by injection.
type SelectionPolicy interface {
	// Extractable reports whether the segment owned by the element or key
	// named tag, addressed by path, should be extracted. XML tags carry
	// their namespace prefix ("content:encoded"); for tail text the tag
	// and attrs belong to the child element the text follows.
	Extractable(tag, path string, attrs map[string]string) bool

	// Name returns the profile name recorded in the bundle.
	Name() string
}

// GenericPolicy selects every text-bearing node. It is the default
// profile and works for any document shape.
type GenericPolicy struct{}

// Extractable always returns true.
func (GenericPolicy) Extractable(tag, path string, attrs map[string]string) bool {
	return true
}

// Name returns "generic".
func (GenericPolicy) Name() string { return ProfileGeneric }

// TagSetPolicy selects only nodes whose tag or key belongs to a fixed
// set. Tags match exactly, prefix included, so "content:encoded" and a
// bare "encoded" are different entries.
type TagSetPolicy struct {
	name string
	tags map[string]struct{}
}

// NewTagSetPolicy creates a policy named name that selects the given tags.
func NewTagSetPolicy(name string, tags ...string) *TagSetPolicy {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return &TagSetPolicy{name: name, tags: set}
}

// NewWordPressPolicy returns the policy for WordPress export (WXR) files.
// It selects the safe zones of an export: item titles, post bodies,
// excerpts and meta values. Everything else in the export is structural
// and stays untouched.
func NewWordPressPolicy() *TagSetPolicy {
	return NewTagSetPolicy(ProfileWordPress,
		"title",
		"content:encoded",
		"excerpt:encoded",
		"wp:meta_value",
	)
}

// Extractable reports whether tag is in the policy's set.
func (p *TagSetPolicy) Extractable(tag, path string, attrs map[string]string) bool {
	_, ok := p.tags[tag]
	return ok
}

// Name returns the policy's profile name.
func (p *TagSetPolicy) Name() string { return p.name }

// Tags returns the selected tags in sorted order.
func (p *TagSetPolicy) Tags() []string {
	tags := make([]string, 0, len(p.tags))
	for t := range p.tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
