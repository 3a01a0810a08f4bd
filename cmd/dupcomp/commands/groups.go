package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/dupcomp/internal/config"
)

// NewGroupsCommand creates the groups command
func NewGroupsCommand(cfg *config.Config) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the backup groups of the configuration",
		Long: `List the backup groups defined under backup_groups, in name order.

With --details every group is built, which validates it and reads any
keyring secrets it references.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !details {
				if err := cfg.Load(); err != nil {
					return err
				}
				for _, name := range cfg.GroupNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			bc, err := buildConfig(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tPROVIDER\tENCRYPTED\tVOLSIZE\tSOURCES")
			for _, g := range bc.Groups() {
				paths := make([]string, 0, len(g.Sources()))
				for _, s := range g.Sources() {
					paths = append(paths, s.Path())
				}
				encrypted := "no"
				if g.Encryption().Enabled() {
					encrypted = "yes (" + g.Encryption().KeyID() + ")"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					g.Name(), g.Provider().URL(), encrypted, g.VolumeSize(), strings.Join(paths, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "Build every group and show its settings")

	return cmd
}
