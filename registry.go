package structguard

import "sort"

// PolicyRegistry resolves selection policies by profile name. Register
// all policies during startup; lookups after that are read-only and safe
// for concurrent use.
type PolicyRegistry struct {
	policies map[string]SelectionPolicy
}

// NewPolicyRegistry creates a registry pre-loaded with the built-in
// generic and wordpress profiles.
func NewPolicyRegistry() *PolicyRegistry {
	r := &PolicyRegistry{policies: make(map[string]SelectionPolicy)}
	r.Register(GenericPolicy{})
	r.Register(NewWordPressPolicy())
	return r
}

// Get returns the policy registered under name.
// Returns ENOTFOUND if no such profile exists.
func (r *PolicyRegistry) Get(name string) (SelectionPolicy, error) {
	policy, ok := r.policies[name]
	if !ok {
		return nil, Errorf(ENOTFOUND, "unknown profile %q", name)
	}
	return policy, nil
}

// Register adds a policy under its own name, replacing any previous
// registration.
func (r *PolicyRegistry) Register(policy SelectionPolicy) {
	r.policies[policy.Name()] = policy
}

// List returns the registered profile names in sorted order.
func (r *PolicyRegistry) List() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AdapterRegistry dispatches extraction and injection to the adapter for
// a document format.
type AdapterRegistry struct {
	adapters map[Format]Adapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[Format]Adapter)}
}

// Get returns the adapter for format.
// Returns EUNSUPPORTED if no adapter is registered for it.
func (r *AdapterRegistry) Get(format Format) (Adapter, error) {
	adapter, ok := r.adapters[format]
	if !ok {
		return nil, Errorf(EUNSUPPORTED, "no adapter for format %q", format)
	}
	return adapter, nil
}

// Register adds an adapter under its own format, replacing any previous
// registration.
func (r *AdapterRegistry) Register(adapter Adapter) {
	r.adapters[adapter.Format()] = adapter
}

// Formats returns the registered formats in sorted order.
func (r *AdapterRegistry) Formats() []Format {
	formats := make([]Format, 0, len(r.adapters))
	for f := range r.adapters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
