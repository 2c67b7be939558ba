package main

import (
	"fmt"
	"strings"

	"github.com/structguard/structguard"
)

// Run executes the profiles command.
func (c *ProfilesCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	for _, name := range deps.Policies.List() {
		policy, err := deps.Policies.Get(name)
		if err != nil {
			return err
		}
		if tagSet, ok := policy.(*structguard.TagSetPolicy); ok {
			fmt.Fprintf(deps.Stdout, "%s: %s\n", name, strings.Join(tagSet.Tags(), ", "))
		} else {
			fmt.Fprintf(deps.Stdout, "%s: all text segments\n", name)
		}
	}
	return nil
}
