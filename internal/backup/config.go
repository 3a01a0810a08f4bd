// Package backup validates a dupcomp configuration and composes the
// argument vectors and environments handed to duplicity.
//
// The whole object graph is built once by NewConfig. Construction is
// all-or-nothing: the first invalid field anywhere aborts it, and secrets
// referenced through the keyring are resolved during construction.
package backup

import (
	"fmt"
	"sort"
)

// Config is the validated set of backup groups.
type Config struct {
	groups map[string]*Group
	names  []string
}

// NewConfig builds every group of raw["backup_groups"], in name order.
// secrets may be nil when the configuration holds no keyring references.
func NewConfig(raw map[string]interface{}, secrets SecretResolver) (*Config, error) {
	rawGroups, ok := raw["backup_groups"]
	if !ok {
		return nil, &ConfigurationError{Message: `missing top-level key "backup_groups"`}
	}
	groupsData, ok := rawGroups.(map[string]interface{})
	if !ok {
		return nil, &ConfigurationError{Message: `"backup_groups" must be a mapping of group name to group`}
	}

	names := make([]string, 0, len(groupsData))
	for name := range groupsData {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Config{
		groups: make(map[string]*Group, len(names)),
		names:  names,
	}
	for _, name := range names {
		data, ok := groupsData[name].(map[string]interface{})
		if !ok {
			return nil, &GroupError{
				Group: name,
				Err:   &InvalidValueError{Field: "backup_groups." + name, Value: groupsData[name], Reason: "expected a mapping"},
			}
		}
		group, err := NewGroup(name, data, secrets)
		if err != nil {
			return nil, &GroupError{Group: name, Err: err}
		}
		c.groups[name] = group
	}
	return c, nil
}

// Group returns the group called name.
func (c *Config) Group(name string) (*Group, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// Names returns the group names in ascending order.
func (c *Config) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Groups returns every group ordered by name.
func (c *Config) Groups() []*Group {
	out := make([]*Group, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.groups[name])
	}
	return out
}

// UnknownGroupError is returned by Select for a name with no group.
type UnknownGroupError struct {
	Name string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("no group %s in the configuration", e.Name)
}

// Select returns the named groups in the order given, or every group when
// names is empty.
func (c *Config) Select(names []string) ([]*Group, error) {
	if len(names) == 0 {
		return c.Groups(), nil
	}
	out := make([]*Group, 0, len(names))
	for _, name := range names {
		g, ok := c.groups[name]
		if !ok {
			return nil, &UnknownGroupError{Name: name}
		}
		out = append(out, g)
	}
	return out, nil
}
