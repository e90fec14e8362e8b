package check

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/owncheck/owncheck/internal/policy"
	"github.com/owncheck/owncheck/internal/session"
	"github.com/owncheck/owncheck/internal/testutil/testlog"
)

type runnerFunc func(username string) (session.Outcome, error)

func (f runnerFunc) Run(username string) (session.Outcome, error) {
	return f(username)
}

func okOutcome(user string) session.Outcome {
	return session.Outcome{
		User:        user,
		RootFolder:  "/home/" + user,
		StatusLines: []string{fmt.Sprintf("%s folder '/home/%s' is in 'SYNC' state (ok)", user, user)},
	}
}

func TestRunAllUsersOK(t *testing.T) {
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		return okOutcome(user), nil
	}), testlog.Start(t))

	report := r.Run([]string{"alice", "bob"})
	if report.Severity != policy.OK || report.ExitCode() != 0 {
		t.Fatalf("unexpected verdict: %+v", report)
	}
	want := "OK (alice folder '/home/alice' is in 'SYNC' state (ok), bob folder '/home/bob' is in 'SYNC' state (ok))"
	if report.Summary != want {
		t.Fatalf("summary got=%q want=%q", report.Summary, want)
	}
}

func TestRunVersionWarning(t *testing.T) {
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		out := okOutcome(user)
		out.WarningReason = user + " client version 1.7 is older than required 1.8"
		return out, nil
	}), testlog.Start(t))

	report := r.Run([]string{"alice"})
	if report.Severity != policy.Warning || report.ExitCode() != 1 {
		t.Fatalf("unexpected verdict: %+v", report)
	}
	if !strings.HasPrefix(report.Summary, "WARNING: alice client version 1.7 is older than required 1.8 (") {
		t.Fatalf("unexpected summary: %q", report.Summary)
	}
}

func TestRunErrorOutranksWarning(t *testing.T) {
	outcomes := map[string]session.Outcome{
		"alice": okOutcome("alice"),
		"bob": {
			User:        "bob",
			StatusLines: []string{"bob folder '/home/bob' is in 'NONE' state (error)"},
			ErrorReason: "bob folder '/home/bob' is in 'NONE' state (error)",
		},
	}
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		return outcomes[user], nil
	}), testlog.Start(t))

	report := r.Run([]string{"alice", "bob"})
	if report.Severity != policy.Error || report.ExitCode() != 2 {
		t.Fatalf("unexpected verdict: %+v", report)
	}
	// Both users' status lines appear, in request order.
	want := "ERROR: bob folder '/home/bob' is in 'NONE' state (error) " +
		"(alice folder '/home/alice' is in 'SYNC' state (ok), bob folder '/home/bob' is in 'NONE' state (error))"
	if report.Summary != want {
		t.Fatalf("summary got=%q want=%q", report.Summary, want)
	}
}

func TestRunUnknownOutranksEverything(t *testing.T) {
	outcomes := map[string]session.Outcome{
		"alice": {
			User:        "alice",
			StatusLines: []string{"alice folder '/home/alice' is in 'NONE' state (error)"},
			ErrorReason: "alice folder '/home/alice' is in 'NONE' state (error)",
		},
		"bob": {
			User:          "bob",
			StatusLines:   []string{"bob folder '/home/bob' is in 'PAUSED' state (unknown)"},
			UnknownReason: "bob folder '/home/bob' is in 'PAUSED' state (unknown)",
		},
	}
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		return outcomes[user], nil
	}), testlog.Start(t))

	report := r.Run([]string{"bob", "alice"})
	if report.Severity != policy.Unknown || report.ExitCode() != 3 {
		t.Fatalf("unknown must outrank error: %+v", report)
	}
	if !strings.HasPrefix(report.Summary, "UNKNOWN: bob folder") {
		t.Fatalf("unexpected summary: %q", report.Summary)
	}
}

func TestRunReasonSlotLastWriterWins(t *testing.T) {
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		out := okOutcome(user)
		out.WarningReason = user + " client version 1.6 is older than required 1.8"
		return out, nil
	}), testlog.Start(t))

	report := r.Run([]string{"alice", "bob"})
	if !strings.HasPrefix(report.Summary, "WARNING: bob client version") {
		t.Fatalf("later user's reason should win: %q", report.Summary)
	}
}

func TestRunSessionFailureReportsUnknown(t *testing.T) {
	dialErr := errors.New("protocol: connection failed: dial /tmp/runtime-bob/ownCloud/socket")
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		if user == "bob" {
			return session.Outcome{}, dialErr
		}
		return okOutcome(user), nil
	}), testlog.Start(t))

	report := r.Run([]string{"alice", "bob"})
	if report.Severity != policy.Unknown || report.ExitCode() != 3 {
		t.Fatalf("failed session must report unknown: %+v", report)
	}
	if !strings.Contains(report.Summary, "alice folder '/home/alice' is in 'SYNC' state (ok)") {
		t.Fatalf("healthy user dropped from report: %q", report.Summary)
	}
	if !strings.Contains(report.Summary, "bob sync state could not be determined") {
		t.Fatalf("failed user missing from report: %q", report.Summary)
	}
}

func TestRunContinuesPastFailure(t *testing.T) {
	var probed []string
	r := NewRunner(runnerFunc(func(user string) (session.Outcome, error) {
		probed = append(probed, user)
		if user == "alice" {
			return session.Outcome{}, errors.New("boom")
		}
		return okOutcome(user), nil
	}), testlog.Start(t))

	_ = r.Run([]string{"alice", "bob", "carol"})
	if len(probed) != 3 {
		t.Fatalf("all users must be attempted, got %v", probed)
	}
}
