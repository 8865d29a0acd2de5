package cleanup

// Mode selects between a read-only report and deleting the reported files.
type Mode string

const (
	ModeReport Mode = "report"
	ModeDelete Mode = "delete"
)

// ParseMode maps a command argument to a Mode. Only "delete" is destructive;
// anything else, including an empty argument, is a report.
func ParseMode(arg string) Mode {
	if arg == string(ModeDelete) {
		return ModeDelete
	}
	return ModeReport
}
