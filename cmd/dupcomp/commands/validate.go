package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/dupcomp/internal/config"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(cfg *config.Config) *cobra.Command {
	var schemaOnly bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Check the configuration file against the configuration schema, which
lists every structural problem at once, then build every group exactly as
backup and restore would.

Use --schema-only to skip the build, for example on a host without access
to the keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.Logger.Debug("%s matches the configuration schema", cfg.Path)

			if !schemaOnly {
				resolver, err := newResolver(cfg)
				if err != nil {
					return err
				}
				if _, err := cfg.Build(resolver); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid (%d groups)\n", cfg.Path, len(cfg.GroupNames()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Only check the structure, do not build groups")

	return cmd
}
