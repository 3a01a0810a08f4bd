package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/systmms/dupcomp/internal/config"
	"github.com/systmms/dupcomp/internal/logging"
)

const twoGroupConfig = `
backup_groups:
  groupone:
    volume_size: 500
    encryption:
      enabled: false
    backup_provider:
      url: file://
    sources:
      /etc:
        backup_path: /root/backups/system
        restore_path: /tmp/restore/system
      /home/foo/bar:
        backup_path: /root/backups/user
        restore_path: /tmp/restore/user
  grouptwo:
    volume_size: 200
    encryption:
      enabled: true
      gpg_key: yyyyyy
      gpg_passphrase: [dupcomp-test, grouptwo]
    backup_provider:
      url: scp://myuser@host.example2.com/
    sources:
      /var/lib:
        backup_path: /root/backups/system/libs
        restore_path: /tmp/restore/libs
`

func writeTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dupcomposer-config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return &config.Config{
		Path:   path,
		Logger: logging.NewWithWriter(&bytes.Buffer{}, false, true),
	}
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// fakeDuplicity writes a duplicity stand-in that reports version and logs
// each call with its passphrase to the returned log file.
func fakeDuplicity(t *testing.T, version string, exitCode int) (bin, log string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	dir := t.TempDir()
	bin = filepath.Join(dir, "duplicity")
	log = filepath.Join(dir, "calls.log")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo \"duplicity " + version + "\"; exit 0; fi\n" +
		"echo \"$PASSPHRASE|$*\" >> " + log + "\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0700))
	return bin, log
}
