package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/systmms/dupcomp/internal/backup"
	dcerrors "github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/logging"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "dupcomposer-config.yml"

// Config holds the runtime configuration
type Config struct {
	Path   string
	Logger *logging.Logger

	// Raw is the decoded document handed to backup.NewConfig.
	Raw map[string]interface{}
	// Keyring is the optional top-level keyring block.
	Keyring KeyringConfig
	// KeyringOverride holds values given on the command line. Non-empty
	// fields win over Keyring.
	KeyringOverride KeyringConfig

	data []byte
}

// KeyringConfig selects whose keyring holds referenced secrets.
type KeyringConfig struct {
	User   string `yaml:"user"`
	Socket string `yaml:"socket"`
}

// Load reads and parses the configuration file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dcerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Pass the configuration with --config or create " + DefaultPath,
			}
		}
		return dcerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	raw, err := decode(data)
	if err != nil {
		return dcerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	keyring, err := keyringBlock(raw)
	if err != nil {
		return err
	}

	c.Raw = raw
	c.Keyring = keyring
	c.data = data
	if c.Logger != nil {
		c.Logger.Debug("Loaded configuration from %s", c.Path)
	}
	return nil
}

func decode(data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func keyringBlock(raw map[string]interface{}) (KeyringConfig, error) {
	var kc KeyringConfig
	block, ok := raw["keyring"]
	if !ok || block == nil {
		return kc, nil
	}

	m, ok := block.(map[string]interface{})
	if !ok {
		return kc, dcerrors.ConfigError{
			Field:      "keyring",
			Value:      block,
			Message:    "must be a mapping",
			Suggestion: "Use 'keyring: {user: <name>, socket: <path>}'",
		}
	}
	for field, target := range map[string]*string{"user": &kc.User, "socket": &kc.Socket} {
		v, present := m[field]
		if !present || v == nil {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return KeyringConfig{}, dcerrors.ConfigError{
				Field:   "keyring." + field,
				Value:   v,
				Message: "must be a string",
			}
		}
		*target = s
	}
	return kc, nil
}

// EffectiveKeyring merges the command line override into the file block.
func (c *Config) EffectiveKeyring() KeyringConfig {
	kc := c.Keyring
	if c.KeyringOverride.User != "" {
		kc.User = c.KeyringOverride.User
	}
	if c.KeyringOverride.Socket != "" {
		kc.Socket = c.KeyringOverride.Socket
	}
	return kc
}

// GroupNames returns the names under backup_groups without building them.
func (c *Config) GroupNames() []string {
	groups, _ := c.Raw["backup_groups"].(map[string]interface{})
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	return sortedCopy(names)
}

// Build validates the document and constructs the backup configuration.
// secrets may be nil when the document holds no keyring references.
func (c *Config) Build(secrets backup.SecretResolver) (*backup.Config, error) {
	if c.Raw == nil {
		return nil, fmt.Errorf("configuration %s has not been loaded", c.Path)
	}
	bc, err := backup.NewConfig(c.Raw, secrets)
	if err != nil {
		return nil, dcerrors.Explain("Invalid backup configuration in "+c.Path, err)
	}
	return bc, nil
}
