package policy

// Severity is the four-level verdict model of infrastructure check
// plugins. The numeric value doubles as the process exit code.
type Severity int

const (
	OK Severity = iota
	Warning
	Error
	Unknown
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Unknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// Label is the lower-case category annotation used in status lines.
func (s Severity) Label() string {
	switch s {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Worse picks the higher-priority severity, ordered
// UNKNOWN > ERROR > WARNING > OK.
func Worse(a, b Severity) Severity {
	if a >= b {
		return a
	}
	return b
}
