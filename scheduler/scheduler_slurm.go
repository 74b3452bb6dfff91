package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Slurm is the job submission facade. It owns no state beyond its
// configuration, so a single instance is safe for concurrent use: every
// operation is one independent scheduler invocation.
type Slurm struct {
	executor Executor
	opts     Options
}

func NewSlurm(executor Executor, opts Options) *Slurm {
	if opts.DefaultJobName == "" {
		opts.DefaultJobName = DefaultJobName
	}
	if opts.OutputPattern == "" {
		opts.OutputPattern = DefaultOutputPattern
	}
	if opts.ErrorPattern == "" {
		opts.ErrorPattern = DefaultErrorPattern
	}
	return &Slurm{
		executor: executor,
		opts:     opts,
	}
}

// Submit renders the request into an sbatch invocation, runs it and
// parses the returned job id. Submission is not idempotent: calling it twice
// enqueues two jobs.
func (s *Slurm) Submit(ctx context.Context, req *SubmitRequest) (JobID, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	cmd := s.buildSubmitCommand(req)
	out, err := s.exec(ctx, "submit", req.User, cmd)
	if err != nil {
		log.Printf("submit failed: %s", err)
		return "", commandError(out, err)
	}

	id, err := ParseJobID(out)
	if err != nil {
		log.Printf("submit output not understood: %q", strings.TrimSpace(out))
		return "", err
	}
	return id, nil
}

// Status queries the scheduler for the current state of a job. Jobs that
// already left the queue are looked up in accounting; a handle unknown to
// both yields *NotFoundError.
func (s *Slurm) Status(ctx context.Context, id JobID) (JobState, error) {
	if err := validateJobID(id); err != nil {
		return JobStateUnknown, err
	}

	cmd := fmt.Sprintf("%s --jobs=%s --noheader -O State:64", s.bin("squeue"), id)
	out, err := s.exec(ctx, "status", "", cmd)
	switch {
	case err == nil:
		if state := firstNonBlank(out); state != "" {
			return mapState(state), nil
		}
		// Finished jobs drop out of the queue; accounting may still know.
	case strings.Contains(out, "Invalid job id"):
		// squeue reports ids it no longer tracks as errors.
	default:
		log.Printf("status failed: %s", err)
		return JobStateUnknown, commandError(out, err)
	}

	return s.accountedState(ctx, id)
}

// accountedState resolves a job no longer in the queue through sacct. An
// empty accounting answer means the job expired from the accounting window
// or never existed.
func (s *Slurm) accountedState(ctx context.Context, id JobID) (JobState, error) {
	cmd := fmt.Sprintf(
		"%s --jobs=%s --allocations --noheader --parsable2 --format=State",
		s.bin("sacct"),
		id,
	)
	out, err := s.exec(ctx, "status", "", cmd)
	if err != nil {
		if strings.Contains(out, "Bad job/step specified") || strings.Contains(out, "Invalid job id") {
			return JobStateUnknown, &NotFoundError{JobID: id}
		}
		log.Printf("status failed: %s", err)
		return JobStateUnknown, commandError(out, err)
	}

	state := firstNonBlank(out)
	if state == "" {
		return JobStateUnknown, &NotFoundError{JobID: id}
	}
	return mapState(state), nil
}

// Cancel asks the scheduler to terminate a job. A nil return only confirms
// the request was accepted; termination itself happens asynchronously at the
// scheduler.
func (s *Slurm) Cancel(ctx context.Context, id JobID) error {
	if err := validateJobID(id); err != nil {
		return err
	}

	cmd := fmt.Sprintf("%s %s", s.bin("scancel"), id)
	out, err := s.exec(ctx, "cancel", "", cmd)
	if err != nil {
		log.Printf("cancel failed: %s", err)
		return cancelError(id, out, err)
	}
	return nil
}

// CancelByName kills every active job with the given name, scoped to the
// requesting user.
func (s *Slurm) CancelByName(ctx context.Context, req *CancelByNameRequest) error {
	if err := validateJobName(req.Name); err != nil {
		return err
	}

	cmd := fmt.Sprintf("%s --name=%s --me", s.bin("scancel"), req.Name)
	out, err := s.exec(ctx, "cancel", req.User, cmd)
	if err != nil {
		log.Printf("cancel failed: %s", err)
		return cancelError("", out, err)
	}
	return nil
}

// FindJobByName returns the id of the first active (pending or running) job
// with the given name.
func (s *Slurm) FindJobByName(ctx context.Context, req *FindJobByNameRequest) (JobID, error) {
	if err := validateJobName(req.Name); err != nil {
		return "", err
	}

	cmd := fmt.Sprintf("%s --name=%s -O JobId:256 --noheader", s.bin("squeue"), req.Name)
	out, err := s.exec(ctx, "find", req.User, cmd)
	if err != nil {
		log.Printf("find failed: %s", err)
		return "", commandError(out, err)
	}

	line := firstNonBlank(out)
	if line == "" {
		return "", &NotFoundError{Name: req.Name}
	}
	if !squeueIDRe.MatchString(line) {
		log.Printf("find output not understood: %q", line)
		return "", &ParseError{Output: out, Reason: "unexpected job id in squeue output"}
	}
	return JobID(line), nil
}

// Queue lists the scheduler queue, optionally filtered by job name, state
// list and owning user. The command runs as the configured account; the
// user filter only narrows the listing.
func (s *Slurm) Queue(ctx context.Context, req *QueueRequest) ([]QueueEntry, error) {
	if req == nil {
		req = &QueueRequest{}
	}
	if err := validateFilters(req.Name, req.States, req.User); err != nil {
		return nil, err
	}

	cmd := fmt.Sprintf("%s --noheader -o %s", s.bin("squeue"), queueFormat)
	if req.Name != "" {
		cmd += fmt.Sprintf(" --name=%s", req.Name)
	}
	if req.States != "" {
		cmd += fmt.Sprintf(" --states=%s", req.States)
	}
	if req.User != "" {
		cmd += fmt.Sprintf(" --user=%s", req.User)
	}
	out, err := s.exec(ctx, "queue", "", cmd)
	if err != nil {
		log.Printf("queue failed: %s", err)
		return nil, commandError(out, err)
	}
	return parseQueue(out), nil
}

// CountJobs counts queued jobs, optionally filtered by job name, state list
// and owning user, using the id-only listing.
func (s *Slurm) CountJobs(ctx context.Context, req *CountRequest) (int, error) {
	if req == nil {
		req = &CountRequest{}
	}
	if err := validateFilters(req.Name, req.States, req.User); err != nil {
		return 0, err
	}

	cmd := fmt.Sprintf("%s --noheader -O JobId:256", s.bin("squeue"))
	if req.Name != "" {
		cmd += fmt.Sprintf(" --name=%s", req.Name)
	}
	if req.States != "" {
		cmd += fmt.Sprintf(" --states=%s", req.States)
	}
	if req.User != "" {
		cmd += fmt.Sprintf(" --user=%s", req.User)
	}
	out, err := s.exec(ctx, "count", "", cmd)
	if err != nil {
		log.Printf("count failed: %s", err)
		return 0, commandError(out, err)
	}
	return countJobIDs(out), nil
}

// HealthCheck runs squeue to check that the controller responds.
func (s *Slurm) HealthCheck(ctx context.Context) error {
	out, err := s.exec(ctx, "healthcheck", "", s.bin("squeue"))
	if err != nil {
		log.Printf("healthcheck failed: %s", err)
		return commandError(out, err)
	}
	return nil
}

// Version reports the scheduler release, which doubles as the availability
// probe for the submission command.
func (s *Slurm) Version(ctx context.Context) (string, error) {
	cmd := fmt.Sprintf("%s --version", s.bin("sbatch"))
	out, err := s.exec(ctx, "version", "", cmd)
	if err != nil {
		log.Printf("version failed: %s", err)
		return "", commandError(out, err)
	}
	return parseVersion(out)
}

// buildSubmitCommand renders the sbatch command line. Inline payloads travel
// through a quoted heredoc with a random boundary so the script body is
// taken literally; an existing script is passed as the trailing argument.
func (s *Slurm) buildSubmitCommand(req *SubmitRequest) string {
	name := req.Name
	if name == "" {
		name = s.opts.DefaultJobName
	}
	output := req.Output
	if output == "" {
		output = s.opts.OutputPattern
	}
	errput := req.Error
	if errput == "" {
		errput = s.opts.ErrorPattern
	}
	partition := req.Partition
	if partition == "" {
		partition = s.opts.DefaultPartition
	}

	flags := []string{
		"--parsable",
		fmt.Sprintf("--job-name=%s", name),
		fmt.Sprintf("--output=%s", output),
		fmt.Sprintf("--error=%s", errput),
	}
	if partition != "" {
		flags = append(flags, fmt.Sprintf("--partition=%s", partition))
	}
	if req.QOS != "" {
		flags = append(flags, fmt.Sprintf("--qos=%s", req.QOS))
	}
	if req.CPUs > 0 {
		flags = append(flags, fmt.Sprintf("--cpus-per-task=%d", req.CPUs))
	}
	if req.GPUs > 0 {
		flags = append(flags, fmt.Sprintf("--gpus=%d", req.GPUs))
	}
	if req.MemoryMB > 0 {
		flags = append(flags, fmt.Sprintf("--mem=%dM", req.MemoryMB))
	}
	if req.TimeLimit > 0 {
		flags = append(flags, fmt.Sprintf("--time=%s", formatDuration(req.TimeLimit)))
	}
	if req.Chdir != "" {
		flags = append(flags, fmt.Sprintf("--chdir=%s", req.Chdir))
	}
	if len(req.Env) > 0 {
		flags = append(flags, exportFlag(req.Env))
	}

	var b strings.Builder
	b.WriteString(s.bin("sbatch"))
	for _, flag := range flags {
		b.WriteString(" \\\n  ")
		b.WriteString(flag)
	}

	if req.ScriptPath != "" {
		b.WriteString(" ")
		b.WriteString(req.ScriptPath)
		return b.String()
	}

	eof := uuid.NewString()
	fmt.Fprintf(&b, " << '%s'\n%s%s", eof, BuildScript(req), eof)
	return b.String()
}

// exportFlag renders --export with sorted keys so the command line is
// deterministic.
func exportFlag(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	pairs = append(pairs, "ALL")
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return "--export=" + strings.Join(pairs, ",")
}

// exec runs one scheduler command as the requested user (falling back to the
// configured one), applying the configured timeout.
func (s *Slurm) exec(ctx context.Context, op, user, cmd string) (string, error) {
	if s.opts.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CommandTimeout)
		defer cancel()
	}
	if user == "" {
		user = s.opts.User
	}

	out, err := s.executor.ExecAs(ctx, user, cmd)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, &TimeoutError{Op: op, Timeout: s.opts.CommandTimeout}
	}
	return out, err
}

// bin resolves a scheduler binary against the configured bin directory.
func (s *Slurm) bin(name string) string {
	if s.opts.BinDir == "" {
		return name
	}
	return filepath.Join(s.opts.BinDir, name)
}

// commandError wraps a failed invocation, letting timeouts pass through.
func commandError(out string, err error) error {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return timeout
	}
	return &SubmissionError{Output: out, Err: err}
}

// cancelError classifies scancel failures by the scheduler's error text.
func cancelError(id JobID, out string, err error) error {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return timeout
	}
	if strings.Contains(out, "Invalid job id") {
		return &NotFoundError{JobID: id}
	}
	return &CancellationError{JobID: id, Output: out}
}
