// Package report turns batch outcomes into the two end-of-run summary
// messages.
package report

import (
	"strings"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/eventlog"
)

// Summary prefixes.
const (
	SuccessPrefix = "Following script(s) completed execution: "
	FailurePrefix = "Following script(s) failed to execute: "
)

// FailureTitle is the sink title of the failure summary.
const FailureTitle = "Script Execution"

// Entry is one association's result as seen by the reporter.
type Entry struct {
	Association assoc.Association
	Succeeded   bool
}

// Summarize renders the success and failure summaries. A summary is empty
// when no association falls into its class.
func Summarize(entries []Entry) (success, failure string) {
	var ok, bad []string
	for _, e := range entries {
		label := "'" + e.Association.Label() + "'"
		if e.Succeeded {
			ok = append(ok, label)
		} else {
			bad = append(bad, label)
		}
	}
	if len(ok) > 0 {
		success = SuccessPrefix + strings.Join(ok, ", ")
	}
	if len(bad) > 0 {
		failure = FailurePrefix + strings.Join(bad, ", ")
	}
	return success, failure
}

// Log sends the non-empty summaries to sink: successes as a status
// message, failures as a failure.
func Log(sink eventlog.Sink, entries []Entry) {
	success, failure := Summarize(entries)
	if success != "" {
		sink.LogStatus(success)
	}
	if failure != "" {
		sink.LogFailure(FailureTitle, failure)
	}
}
