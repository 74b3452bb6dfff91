// Package scheduler drives a SLURM cluster through its command-line tools.
//
// The facade translates job specifications into sbatch/squeue/scancel/sacct
// invocations and scheduler output back into structured results. All queueing,
// resource allocation and retry logic lives in SLURM itself; nothing is
// cached or persisted here.
package scheduler

import (
	"context"
	"time"
)

// Executor runs a shell command as the given UNIX user and returns its
// combined output. The error is non-nil when the command could not be run or
// exited non-zero.
type Executor interface {
	ExecAs(ctx context.Context, user string, cmd string) (string, error)
}

// JobID is the opaque handle the scheduler returns on submission. Every
// status and cancel operation is keyed by it.
type JobID string

// JobState is the coarse lifecycle of a job as reported by the scheduler.
// SLURM's full state vocabulary folds onto this set; tokens we do not
// recognise map to JobStateUnknown.
type JobState string

const (
	JobStatePending   JobState = "pending"
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
	JobStateCancelled JobState = "cancelled"
	JobStateUnknown   JobState = "unknown"
)

// Defaults applied by NewSlurm when the corresponding Options field is empty.
// The %j in the output patterns expands to the job id at the scheduler.
const (
	DefaultJobName       = "batch_job"
	DefaultOutputPattern = "slurm_%j.out"
	DefaultErrorPattern  = "slurm_%j.err"
)

// Options configure the facade. The zero value works against a cluster whose
// commands are reachable through PATH.
type Options struct {
	// User is the UNIX user scheduler commands run as when a request does
	// not name one.
	User string
	// BinDir is the directory holding sbatch, squeue, scancel and sacct.
	// Empty relies on PATH.
	BinDir string
	// DefaultPartition is used by Submit when the request has none. Empty
	// leaves the choice to the scheduler.
	DefaultPartition string
	// DefaultJobName is used by Submit when the request has none.
	DefaultJobName string
	// OutputPattern and ErrorPattern are the default stdout/stderr paths of
	// submitted jobs.
	OutputPattern string
	ErrorPattern  string
	// CommandTimeout bounds every scheduler invocation. Zero means no bound;
	// expiry surfaces as *TimeoutError.
	CommandTimeout time.Duration
}

// SubmitRequest describes one batch job. Exactly one of ScriptPath, Script or
// Command must be set. The request is rendered into a command line by string
// formatting, so Validate restricts every interpolated field to a shell-safe
// character set.
type SubmitRequest struct {
	// Name of the job. Empty falls back to the configured default.
	Name string
	// User is a UNIX User used for impersonation.
	User string

	// ScriptPath names an existing batch script submitted as-is.
	ScriptPath string
	// Script is an inline batch script, fed to sbatch through a heredoc. A
	// missing shebang line is supplied.
	Script string
	// Command is a single command line wrapped into a generated script.
	Command string
	// Preamble lines are inserted between the shebang and the payload,
	// typically environment setup or module loads. Ignored with ScriptPath.
	Preamble []string

	// Partition the job is submitted to. Empty falls back to the configured
	// default, then to the scheduler's.
	Partition string
	// QOS of the job.
	QOS string
	// CPUs requested per task. Zero leaves the choice to the scheduler.
	CPUs int
	// GPUs requested for the whole job.
	GPUs int
	// MemoryMB is the requested memory per node in megabytes.
	MemoryMB int
	// TimeLimit caps the job walltime. Zero uses the partition default.
	TimeLimit time.Duration
	// Chdir is the working directory of the batch script.
	Chdir string
	// Output and Error are the stdout/stderr paths; %j expands to the job
	// id. Empty falls back to the configured patterns.
	Output string
	Error  string
	// Env is exported into the job environment on top of the submitting
	// user's.
	Env map[string]string
}

// CancelByNameRequest kills jobs by name instead of by handle.
type CancelByNameRequest struct {
	// Name of the job(s)
	Name string
	// User is a UNIX User used for impersonation.
	User string
}

// FindJobByNameRequest looks an active job up by name.
type FindJobByNameRequest struct {
	// Name of the job
	Name string
	// User is a UNIX User used for impersonation.
	User string
}

// QueueRequest filters a queue listing. The zero value lists everything.
type QueueRequest struct {
	// Name restricts the listing to jobs with this name.
	Name string
	// States is a comma-separated SLURM state list, e.g. "RUNNING,PENDING"
	// or "all".
	States string
	// User restricts the listing to jobs owned by this account.
	User string
}

// CountRequest filters a job count. The zero value counts the whole queue.
type CountRequest struct {
	// Name restricts the count to jobs with this name.
	Name string
	// States is a comma-separated SLURM state list.
	States string
	// User restricts the count to jobs owned by this account.
	User string
}

// QueueEntry is one parsed row of the scheduler queue.
type QueueEntry struct {
	JobID JobID  `json:"jobId"`
	Name  string `json:"name"`
	User  string `json:"user"`
	// State is the mapped lifecycle state; RawState keeps the scheduler's
	// own token (e.g. COMPLETING) for callers that need it.
	State     JobState `json:"state"`
	RawState  string   `json:"slurmState"`
	Partition string   `json:"partition"`
	// Elapsed is the time used so far, as printed by the scheduler.
	Elapsed string `json:"elapsed"`
	// Reason is the wait reason for pending jobs and the node list for
	// running ones.
	Reason string `json:"reason"`
}
