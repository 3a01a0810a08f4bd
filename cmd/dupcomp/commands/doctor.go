package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/dupcomp/internal/config"
	"github.com/systmms/dupcomp/internal/doctor"
	"github.com/systmms/dupcomp/internal/runner"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var binary string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check duplicity, the configuration and S3 credentials",
		Long: `Verify that this host can run the configured backups.

This command checks:
- duplicity is installed and at least version 0.7
- every backup group builds, including keyring secrets
- static S3 keys of groups stored on AWS are accepted by AWS STS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}

			r := runner.New(cfg.Logger)
			r.Binary = binary

			report := doctor.New(cfg.Logger, r).Run(cmd.Context(), cfg, resolver)
			report.Print(cmd.OutOrStdout())

			if report.Failed() {
				return fmt.Errorf("doctor found problems")
			}
			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "duplicity", runner.DefaultBinary, "duplicity executable to check")

	return cmd
}
