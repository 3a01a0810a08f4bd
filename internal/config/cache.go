package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
)

// CacheSuffix is appended to the configuration path to name the copy of
// the last configuration that ran successfully.
const CacheSuffix = ".cached"

// ChangedGroupsError is returned when groups that already ran with an
// earlier configuration have since been modified.
type ChangedGroupsError struct {
	Groups []string
}

func (e *ChangedGroupsError) Error() string {
	return fmt.Sprintf("The configuration of existing group(s) %s has changed since the last run",
		strings.Join(e.Groups, ", "))
}

// CachePath returns the location of the cached configuration.
func (c *Config) CachePath() string {
	return c.Path + CacheSuffix
}

// ChangedGroups compares the loaded document with the cached one and
// returns the sorted names of groups present in both whose definitions
// differ. Without a cache nothing has changed.
func (c *Config) ChangedGroups() ([]string, error) {
	data, err := os.ReadFile(c.CachePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read configuration cache: %w", err)
	}

	cached, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse configuration cache %s: %w", c.CachePath(), err)
	}

	current, _ := c.Raw["backup_groups"].(map[string]interface{})
	previous, _ := cached["backup_groups"].(map[string]interface{})

	var changed []string
	for name, def := range current {
		old, ok := previous[name]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(def, old) {
			changed = append(changed, name)
		}
	}
	return sortedCopy(changed), nil
}

// CheckUnchanged returns a ChangedGroupsError when ChangedGroups is not
// empty.
func (c *Config) CheckUnchanged() error {
	changed, err := c.ChangedGroups()
	if err != nil {
		return err
	}
	if len(changed) > 0 {
		return &ChangedGroupsError{Groups: changed}
	}
	return nil
}

// WriteCache stores the loaded file verbatim as the new cache.
func (c *Config) WriteCache() error {
	if c.data == nil {
		return fmt.Errorf("configuration %s has not been loaded", c.Path)
	}
	if err := os.WriteFile(c.CachePath(), c.data, 0600); err != nil {
		return fmt.Errorf("write configuration cache: %w", err)
	}
	if c.Logger != nil {
		c.Logger.Debug("Cached configuration at %s", c.CachePath())
	}
	return nil
}
