package backup

import "fmt"

// Source is one path of a group together with its destinations.
type Source struct {
	path        string
	backupPath  string
	restorePath string
	provider    Provider
}

// NewSource validates the paths of a source. restore_path may be missing;
// it is only needed for restore commands.
func NewSource(sourcePath string, data map[string]interface{}, provider Provider) (*Source, error) {
	scope := fmt.Sprintf("source %q", sourcePath)

	if err := ValidatePath(sourcePath); err != nil {
		return nil, err
	}

	raw, ok := data["backup_path"]
	if !ok {
		return nil, &MissingFieldError{Scope: scope, Field: "backup_path"}
	}
	backupPath, ok := raw.(string)
	if !ok {
		return nil, &InvalidValueError{Field: scope + ".backup_path", Value: raw, Reason: "expected a string"}
	}
	if err := ValidatePath(backupPath); err != nil {
		return nil, err
	}

	var restorePath string
	if raw, ok := data["restore_path"]; ok && raw != nil {
		restorePath, ok = raw.(string)
		if !ok {
			return nil, &InvalidValueError{Field: scope + ".restore_path", Value: raw, Reason: "expected a string"}
		}
		if restorePath != "" {
			if err := ValidatePath(restorePath); err != nil {
				return nil, err
			}
		}
	}

	return &Source{
		path:        sourcePath,
		backupPath:  backupPath,
		restorePath: restorePath,
		provider:    provider,
	}, nil
}

func (s *Source) Path() string        { return s.path }
func (s *Source) BackupPath() string  { return s.backupPath }
func (s *Source) RestorePath() string { return s.restorePath }

// Cmd returns the positional arguments for mode: source then destination
// for a backup, the reverse for a restore.
func (s *Source) Cmd(mode Mode) ([]string, error) {
	switch mode {
	case ModeBackup:
		return []string{s.path, s.provider.Cmd(s.backupPath)}, nil
	case ModeRestore:
		if s.restorePath == "" {
			return nil, &MissingFieldError{Scope: fmt.Sprintf("source %q", s.path), Field: "restore_path"}
		}
		return []string{s.provider.Cmd(s.backupPath), s.restorePath}, nil
	default:
		return nil, &InvalidModeError{Mode: mode}
	}
}
