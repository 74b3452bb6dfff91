package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// The facade surfaces every failure as one of the typed errors below; match
// them with errors.As. No operation retries on its own: submission is not
// idempotent, so retrying is the caller's decision.

// ValidationError reports a malformed job specification or handle. It is
// returned before any scheduler command runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmissionError reports a scheduler command that could not be run or
// exited non-zero. Output carries whatever the command printed.
type SubmissionError struct {
	Output string
	Err    error
}

func (e *SubmissionError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("scheduler command failed: %v: %s", e.Err, out)
	}
	return fmt.Sprintf("scheduler command failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ParseError reports scheduler output that did not match the expected
// grammar.
type ParseError struct {
	Output string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse scheduler output: %s", e.Reason)
}

// NotFoundError reports a handle or name the scheduler does not recognise:
// the job never existed or already expired from the accounting window.
type NotFoundError struct {
	JobID JobID
	Name  string
}

func (e *NotFoundError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("job %s not found", e.JobID)
	}
	return fmt.Sprintf("no job named %s found", e.Name)
}

// CancellationError reports a cancellation the scheduler rejected, e.g. for
// a job that already completed.
type CancellationError struct {
	JobID  JobID
	Output string
}

func (e *CancellationError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("cancellation of job %s rejected: %s", e.JobID, out)
	}
	return fmt.Sprintf("cancellation of job %s rejected", e.JobID)
}

// TimeoutError reports a scheduler invocation that exceeded its bounded
// wait. Timeout is the configured bound, zero when the caller's own context
// imposed the deadline.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s did not finish within %s", e.Op, e.Timeout)
	}
	return fmt.Sprintf("%s did not finish before the deadline", e.Op)
}
