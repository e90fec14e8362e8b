package check

import (
	"fmt"
	"strings"

	"github.com/owncheck/owncheck/internal/policy"
)

// Report is the final reduced verdict for one probe run: the summary
// line printed to stdout and the severity behind the exit code.
type Report struct {
	Severity policy.Severity
	Summary  string
}

// ExitCode maps the verdict to the conventional plugin exit codes:
// OK=0, WARNING=1, ERROR=2, UNKNOWN=3.
func (r Report) ExitCode() int {
	return int(r.Severity)
}

// report reduces the aggregate by fixed priority
// UNKNOWN > ERROR > WARNING > OK. Exactly one reason slot determines
// the prefix no matter how many users contributed.
func (a *aggregate) report() Report {
	joined := strings.Join(a.lines, ", ")
	switch {
	case a.unknownReason != "":
		return Report{policy.Unknown, fmt.Sprintf("UNKNOWN: %s (%s)", a.unknownReason, joined)}
	case a.errorReason != "":
		return Report{policy.Error, fmt.Sprintf("ERROR: %s (%s)", a.errorReason, joined)}
	case a.warningReason != "":
		return Report{policy.Warning, fmt.Sprintf("WARNING: %s (%s)", a.warningReason, joined)}
	default:
		return Report{policy.OK, fmt.Sprintf("OK (%s)", joined)}
	}
}
