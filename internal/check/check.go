// Package check folds per-user session outcomes into one verdict.
package check

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/owncheck/owncheck/internal/session"
)

// SessionRunner abstracts the per-user probe so the aggregator can be
// exercised against scripted outcomes.
type SessionRunner interface {
	Run(username string) (session.Outcome, error)
}

// Runner probes every requested user sequentially and aggregates the
// results. Reason slots are last-writer-wins per severity; status
// lines accumulate across all users in processing order.
type Runner struct {
	sessions SessionRunner
	log      zerolog.Logger
}

func NewRunner(sessions SessionRunner, log zerolog.Logger) *Runner {
	return &Runner{sessions: sessions, log: log}
}

// Run probes the users in the order given. A failed session is
// reported as that user's UNKNOWN contribution and never stops the
// remaining users.
func (r *Runner) Run(users []string) Report {
	var agg aggregate
	for _, user := range users {
		out, err := r.sessions.Run(user)
		if err != nil {
			r.log.Warn().Err(err).Str("user", user).Msg("session failed")
			line := fmt.Sprintf("%s sync state could not be determined: %v", user, err)
			agg.lines = append(agg.lines, line)
			agg.unknownReason = line
			continue
		}
		agg.fold(out)
	}
	return agg.report()
}

type aggregate struct {
	lines         []string
	warningReason string
	errorReason   string
	unknownReason string
}

func (a *aggregate) fold(out session.Outcome) {
	a.lines = append(a.lines, out.StatusLines...)
	if out.WarningReason != "" {
		a.warningReason = out.WarningReason
	}
	if out.ErrorReason != "" {
		a.errorReason = out.ErrorReason
	}
	if out.UnknownReason != "" {
		a.unknownReason = out.UnknownReason
	}
}
