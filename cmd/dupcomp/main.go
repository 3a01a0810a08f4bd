package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/systmms/dupcomp/cmd/dupcomp/commands"
	"github.com/systmms/dupcomp/internal/config"
	dcerrors "github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Environment variables supplying defaults for flags not given on the
// command line.
var flagEnv = map[string]string{
	"config":         "DUPCOMP_CONFIG",
	"keyring-user":   "DUPCOMP_KEYRING_USER",
	"keyring-socket": "DUPCOMP_KEYRING_SOCKET",
	"debug":          "DUPCOMP_DEBUG",
	"no-color":       "NO_COLOR",
}

func main() {
	// Wipe sealed credentials on SIGINT/SIGTERM as well as on exit.
	memguard.CatchInterrupt()

	err := newRootCommand(&config.Config{}).Execute()
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dcerrors.SimplifyError(err))
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	var (
		configFile    string
		envFile       string
		keyringUser   string
		keyringSocket string
		noColor       bool
		debug         bool
	)

	rootCmd := &cobra.Command{
		Use:   "dupcomp",
		Short: "Compose and run duplicity backups from one configuration file",
		Long: `dupcomp reads backup groups from a YAML file and turns each of them
into duplicity command lines: one per source, with encryption, volume size,
file prefixes and the storage provider's credentials filled in.

Credentials may be stored in the Secret Service keyring instead of the
file, optionally in the keyring of another local user.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file %s: %w", envFile, err)
				}
			}
			if err := applyEnvDefaults(cmd.Flags()); err != nil {
				return err
			}

			cfg.Path = configFile
			cfg.Logger = logging.NewWithWriter(cmd.ErrOrStderr(), debug, noColor)
			cfg.KeyringOverride = config.KeyringConfig{User: keyringUser, Socket: keyringSocket}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", config.DefaultPath, "Config file path")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from this file first")
	flags.StringVar(&keyringUser, "keyring-user", "", "Read keyring secrets of this local user")
	flags.StringVar(&keyringSocket, "keyring-socket", "", "Session bus socket of the keyring owner")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewBackupCommand(cfg),
		commands.NewRestoreCommand(cfg),
		commands.NewGroupsCommand(cfg),
		commands.NewValidateCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd
}

// applyEnvDefaults sets every flag listed in flagEnv that was not given
// explicitly from its environment variable.
func applyEnvDefaults(flags *pflag.FlagSet) error {
	for name, env := range flagEnv {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}
		if f.Value.Type() == "bool" && name == "no-color" {
			// NO_COLOR disables colour whatever its value.
			value = "true"
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, value, err)
		}
	}
	return nil
}
