package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/owncheck/owncheck/internal/check"
	"github.com/owncheck/owncheck/internal/logging"
	"github.com/owncheck/owncheck/internal/policy"
	"github.com/owncheck/owncheck/internal/session"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run keeps main testable: stdout carries exactly one line (the
// verdict, a CONFIG ERROR line, or the version), and the return value
// is the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return int(policy.Unknown)
		}
		fmt.Fprintf(stdout, "CONFIG ERROR: %v\n", err)
		return int(policy.Unknown)
	}
	if opts.ShowVersion {
		fmt.Fprintf(stdout, "owncheck %s\n", version)
		return 0
	}

	logger := logging.ConfigureRuntime(opts.Debug)

	pol, err := policy.Parse(opts.OKStates, opts.WarningStates, opts.ErrorStates, opts.MinimumVersion)
	if err != nil {
		fmt.Fprintf(stdout, "CONFIG ERROR: %v\n", err)
		return int(policy.Unknown)
	}

	engine := session.New(session.Config{
		SocketTemplate: opts.SocketTemplate,
		Timeout:        opts.Timeout,
	}, pol, logger)

	report := check.NewRunner(engine, logger).Run(opts.Users)
	fmt.Fprintln(stdout, report.Summary)
	return report.ExitCode()
}
