package backup

// Mode selects the direction of a run.
type Mode string

const (
	// ModeBackup copies sources to the provider.
	ModeBackup Mode = "backup"
	// ModeRestore copies from the provider to the restore paths.
	ModeRestore Mode = "restore"
)

// ParseMode validates a mode name given on the command line.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBackup, ModeRestore:
		return m, nil
	default:
		return "", &InvalidModeError{Mode: m}
	}
}
