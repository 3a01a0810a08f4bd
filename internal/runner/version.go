package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	dcerrors "github.com/systmms/dupcomp/internal/errors"
)

// Version is a parsed duplicity version.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MinimumVersion is the oldest duplicity whose argument grammar matches
// the composed commands.
var MinimumVersion = Version{Major: 0, Minor: 7}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// UnsupportedVersionError is returned for a duplicity older than
// MinimumVersion.
type UnsupportedVersionError struct {
	Version Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("Unsupported Duplicity version %s! Please install Duplicity %d.%d or later.",
		e.Version, MinimumVersion.Major, MinimumVersion.Minor)
}

// CheckVersion runs "<binary> --version" and verifies the result.
func (r *Runner) CheckVersion(ctx context.Context) (Version, error) {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return Version{}, dcerrors.WrapCommandNotFound(r.Binary, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, "--version")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Version{}, dcerrors.CommandError{
			Command:  r.Binary + " --version",
			ExitCode: exitCode,
			Message:  strings.TrimSpace(stdout.String() + "\n" + stderr.String()),
		}
	}

	v, err := ParseVersion(stdout.String())
	if err != nil {
		return Version{}, err
	}
	r.logger.Debug("Found %s %s", r.Binary, v)

	if v.Less(MinimumVersion) {
		return v, &UnsupportedVersionError{Version: v}
	}
	return v, nil
}

// ParseVersion reads the last word of "duplicity 0.8.21" style output.
// A missing patch level is zero and a suffix such as "rc1" is ignored.
func ParseVersion(output string) (Version, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return Version{}, fmt.Errorf("empty version output")
	}
	word := fields[len(fields)-1]

	parts := strings.SplitN(word, ".", 3)
	if len(parts) < 2 {
		return Version{}, fmt.Errorf("unrecognized version %q", word)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		end := 0
		for end < len(p) && p[end] >= '0' && p[end] <= '9' {
			end++
		}
		if end == 0 {
			return Version{}, fmt.Errorf("unrecognized version %q", word)
		}
		n, err := strconv.Atoi(p[:end])
		if err != nil {
			return Version{}, fmt.Errorf("unrecognized version %q: %w", word, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
