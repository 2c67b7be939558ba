// Package yaml loads selection profiles from YAML files, so deployments
// can define document-shape policies without recompiling.
package yaml

import (
	"os"

	"github.com/structguard/structguard"
	"gopkg.in/yaml.v3"
)

// profilesFile is the on-disk shape:
//
//	profiles:
//	  - name: news
//	    tags: [headline, summary, body]
type profilesFile struct {
	Profiles []profileSpec `yaml:"profiles"`
}

type profileSpec struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// LoadProfiles parses selection profiles from YAML data. Each profile
// becomes a tag-set policy. Returns EINVALID for malformed or empty
// definitions.
func LoadProfiles(data []byte) ([]*structguard.TagSetPolicy, error) {
	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, structguard.Errorf(structguard.EINVALID, "parse profiles: %v", err)
	}
	if len(f.Profiles) == 0 {
		return nil, structguard.Errorf(structguard.EINVALID, "profiles file defines no profiles")
	}

	seen := make(map[string]bool, len(f.Profiles))
	policies := make([]*structguard.TagSetPolicy, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		if p.Name == "" {
			return nil, structguard.Errorf(structguard.EINVALID, "profile without a name")
		}
		if seen[p.Name] {
			return nil, structguard.Errorf(structguard.EINVALID, "duplicate profile %q", p.Name)
		}
		if len(p.Tags) == 0 {
			return nil, structguard.Errorf(structguard.EINVALID, "profile %q selects no tags", p.Name)
		}
		seen[p.Name] = true
		policies = append(policies, structguard.NewTagSetPolicy(p.Name, p.Tags...))
	}
	return policies, nil
}

// LoadFile reads path and parses it with LoadProfiles.
func LoadFile(path string) ([]*structguard.TagSetPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, structguard.Errorf(structguard.EINVALID, "read profiles file: %v", err)
	}
	return LoadProfiles(data)
}

// RegisterFile loads path into the registry, replacing same-named
// profiles.
func RegisterFile(registry *structguard.PolicyRegistry, path string) error {
	policies, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, p := range policies {
		registry.Register(p)
	}
	return nil
}
