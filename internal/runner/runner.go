// Package runner turns a backup configuration into duplicity invocations
// and executes them.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/systmms/dupcomp/internal/backup"
	dcerrors "github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/logging"
	"github.com/systmms/dupcomp/internal/metrics"
)

// DefaultBinary is the backup engine looked up on PATH.
const DefaultBinary = "duplicity"

// GroupCommands holds everything needed to run one group.
type GroupCommands struct {
	Group string
	Mode  backup.Mode
	// Argv holds one full command line per source, binary first.
	Argv [][]string
	// Env is overlaid on the current environment for every command.
	Env map[string]string
}

// Runner executes duplicity for backup groups
type Runner struct {
	Binary  string
	Stdout  io.Writer
	Stderr  io.Writer
	Metrics *metrics.Recorder

	logger *logging.Logger
}

// New creates a runner for the duplicity found on PATH
func New(logger *logging.Logger) *Runner {
	return &Runner{
		Binary: DefaultBinary,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Commands composes the command lines of the named groups, or of every
// group in name order when names is empty.
func (r *Runner) Commands(cfg *backup.Config, mode backup.Mode, names []string) ([]GroupCommands, error) {
	groups, err := cfg.Select(names)
	if err != nil {
		return nil, err
	}

	out := make([]GroupCommands, 0, len(groups))
	for _, g := range groups {
		args, err := g.Arguments(mode)
		if err != nil {
			return nil, &backup.GroupError{Group: g.Name(), Err: err}
		}
		env, err := g.Environment()
		if err != nil {
			return nil, &backup.GroupError{Group: g.Name(), Err: err}
		}

		argv := make([][]string, 0, len(args))
		for _, a := range args {
			argv = append(argv, append([]string{r.Binary}, a...))
		}
		out = append(out, GroupCommands{Group: g.Name(), Mode: mode, Argv: argv, Env: env})
	}
	return out, nil
}

// DryRun prints the commands that Run would execute, without their
// environment.
func DryRun(w io.Writer, commands []GroupCommands) error {
	for _, gc := range commands {
		if _, err := fmt.Fprintf(w, "Generating commands for group %s:\n\n", gc.Group); err != nil {
			return err
		}
		for _, argv := range gc.Argv {
			if _, err := fmt.Fprintln(w, strings.Join(argv, " ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Run executes every command in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, commands []GroupCommands) error {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return dcerrors.WrapCommandNotFound(r.Binary, err)
	}

	for _, gc := range commands {
		r.logger.Info("Running %s for group %s", gc.Mode, gc.Group)
		r.logger.Debug("Environment for group %s: %s", gc.Group, logging.RedactEnv(gc.Env))

		for _, argv := range gc.Argv {
			start := time.Now()
			err := r.exec(ctx, argv, gc.Env)
			r.Metrics.RecordRun(gc.Group, string(gc.Mode), time.Since(start), err)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, argv []string, env map[string]string) error {
	var tail stderrTail
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = buildEnvironment(env)
	cmd.Stdout = r.Stdout
	cmd.Stderr = io.MultiWriter(r.Stderr, &tail)

	r.logger.Debug("Executing command: %s", strings.Join(argv, " "))

	if err := cmd.Run(); err != nil {
		secrets := envValues(env)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return dcerrors.CommandError{
				Command:    strings.Join(argv, " "),
				ExitCode:   exitErr.ExitCode(),
				Message:    logging.Redact(tail.lastLine(), secrets),
				Suggestion: "Check the duplicity output above for details",
			}
		}
		return dcerrors.CommandError{
			Command: strings.Join(argv, " "),
			Message: logging.Redact(err.Error(), secrets),
		}
	}
	return nil
}

// stderrTailSize bounds how much engine output is kept for error messages.
const stderrTailSize = 4096

// stderrTail keeps the last stderrTailSize bytes written to it.
type stderrTail struct {
	buf []byte
}

func (t *stderrTail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > stderrTailSize {
		t.buf = append([]byte(nil), t.buf[len(t.buf)-stderrTailSize:]...)
	}
	return len(p), nil
}

func (t *stderrTail) lastLine() string {
	out := strings.TrimSpace(string(t.buf))
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	return strings.TrimSpace(out)
}

// envValues returns the credential values of a group environment.
func envValues(env map[string]string) []string {
	values := make([]string, 0, len(env))
	for _, v := range env {
		values = append(values, v)
	}
	return values
}

// buildEnvironment overlays groupVars on the current environment. Group
// values take precedence.
func buildEnvironment(groupVars map[string]string) []string {
	envMap := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}
	for key, value := range groupVars {
		envMap[key] = value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, key+"="+value)
	}
	sort.Strings(result)
	return result
}
