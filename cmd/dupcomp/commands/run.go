package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/dupcomp/internal/backup"
	"github.com/systmms/dupcomp/internal/config"
	dcerrors "github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/metrics"
	"github.com/systmms/dupcomp/internal/runner"
)

// NewBackupCommand creates the backup command
func NewBackupCommand(cfg *config.Config) *cobra.Command {
	return newRunCommand(cfg, backup.ModeBackup,
		"Back up the sources of one or more groups",
		`Run duplicity for every source of the given groups, copying each
source path to its backup_path at the group's provider. Without group
names every group is backed up, in name order.`)
}

// NewRestoreCommand creates the restore command
func NewRestoreCommand(cfg *config.Config) *cobra.Command {
	return newRunCommand(cfg, backup.ModeRestore,
		"Restore the sources of one or more groups",
		`Run duplicity for every source of the given groups, copying each
backup_path from the group's provider to the source's restore_path. Every
source of a restored group needs a restore_path.`)
}

func newRunCommand(cfg *config.Config, mode backup.Mode, short, long string) *cobra.Command {
	var (
		dryRun      bool
		skipChanged bool
		metricsFile string
		binary      string
	)

	cmd := &cobra.Command{
		Use:   string(mode) + " [groups...]",
		Short: short,
		Long:  long,
		Example: fmt.Sprintf(`  dupcomp %[1]s
  dupcomp %[1]s --dry-run web mail
  dupcomp -c /etc/dupcomposer-config.yml %[1]s --metrics-file /var/lib/node_exporter/dupcomp.prom`, mode),
		ValidArgsFunction: completeGroupNames(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			if err := checkGroupNames(cfg, args); err != nil {
				return err
			}

			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}
			bc, err := cfg.Build(resolver)
			if err != nil {
				return err
			}

			if !skipChanged {
				if err := cfg.CheckUnchanged(); err != nil {
					var changed *config.ChangedGroupsError
					if errors.As(err, &changed) {
						return dcerrors.UserError{
							Message:    err.Error(),
							Details:    "Running changed groups against existing backups can mix incompatible settings in one backup chain",
							Suggestion: "Review the changes, then rerun with --skip-changed",
							Err:        err,
						}
					}
					return err
				}
			}

			r := runner.New(cfg.Logger)
			r.Binary = binary
			r.Stdout = cmd.OutOrStdout()
			r.Stderr = cmd.ErrOrStderr()

			commands, err := r.Commands(bc, mode, args)
			if err != nil {
				return dcerrors.Explain("Cannot compose duplicity commands", err)
			}

			if dryRun {
				return runner.DryRun(cmd.OutOrStdout(), commands)
			}

			if _, err := r.CheckVersion(cmd.Context()); err != nil {
				return err
			}

			if metricsFile != "" {
				r.Metrics = metrics.NewRecorder()
			}
			runErr := r.Run(cmd.Context(), commands)
			if metricsFile != "" {
				if err := r.Metrics.WriteTextfile(metricsFile); err != nil {
					cfg.Logger.Warn("%v", err)
				}
			}
			if runErr != nil {
				return runErr
			}

			if err := cfg.WriteCache(); err != nil {
				return err
			}
			cfg.Logger.Info("Finished %s of %d group(s)", mode, len(commands))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print the duplicity commands instead of running them")
	cmd.Flags().BoolVarP(&skipChanged, "skip-changed", "s", false, "Run even if groups changed since the last successful run")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics of the run to this path")
	cmd.Flags().StringVar(&binary, "duplicity", runner.DefaultBinary, "duplicity executable to run")

	return cmd
}
