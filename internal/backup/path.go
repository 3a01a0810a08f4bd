package backup

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidatePath rejects paths that could be misread by the backup engine's
// argument parser: empty paths, invalid UTF-8, a leading dash, backslashes,
// control characters and line or paragraph separators.
func ValidatePath(path string) error {
	if path == "" {
		return &PathValidationError{Path: path, Reason: "empty path is not allowed"}
	}
	if !utf8.ValidString(path) {
		return &PathValidationError{Path: path, Reason: "path is not valid UTF-8"}
	}
	if strings.HasPrefix(path, "-") {
		return &PathValidationError{Path: path, Reason: "path must not start with '-'"}
	}
	for _, r := range path {
		switch {
		case r == '\\':
			return &PathValidationError{Path: path, Reason: "backslash is not allowed"}
		case r == '\n':
			return &PathValidationError{Path: path, Reason: "newline is not allowed"}
		case unicode.IsControl(r):
			return &PathValidationError{Path: path, Reason: fmt.Sprintf("control character %U is not allowed", r)}
		case unicode.In(r, unicode.Zl, unicode.Zp):
			return &PathValidationError{Path: path, Reason: fmt.Sprintf("line separator %U is not allowed", r)}
		}
	}
	return nil
}
