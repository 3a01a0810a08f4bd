package commands

import (
	"github.com/systmms/dupcomp/internal/backup"
	"github.com/systmms/dupcomp/internal/config"
	dcerrors "github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/keyring"
)

// newResolver returns a keyring resolver pointed at the keyring selected by
// the configuration file and the command line.
func newResolver(cfg *config.Config) (*keyring.Resolver, error) {
	resolver := keyring.NewResolver(keyring.SecretServiceStore{})

	kc := cfg.EffectiveKeyring()
	if err := resolver.Configure(kc.User, kc.Socket); err != nil {
		return nil, dcerrors.Explain("Cannot use the configured keyring", err)
	}
	if kc.User != "" {
		cfg.Logger.Debug("Reading keyring secrets of %s through %s", kc.User, resolver.BusAddress())
	}
	return resolver, nil
}

// buildConfig loads the configuration file and builds every group,
// resolving keyring references on the way.
func buildConfig(cfg *config.Config) (*backup.Config, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}
	return cfg.Build(resolver)
}

// checkGroupNames rejects requested groups missing from the loaded file
// before anything is built.
func checkGroupNames(cfg *config.Config, names []string) error {
	known := make(map[string]bool)
	for _, n := range cfg.GroupNames() {
		known[n] = true
	}
	for _, n := range names {
		if !known[n] {
			return dcerrors.Explain("Unknown backup group", &backup.UnknownGroupError{Name: n})
		}
	}
	return nil
}
