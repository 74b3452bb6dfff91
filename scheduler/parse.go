package scheduler

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Free-text scheduler output is inherently fragile to parse, so every
// textual contract lives here behind a fixed grammar.
var (
	// sbatch --parsable prints "<id>" or "<id>;<cluster>".
	parsableRe = regexp.MustCompile(`^(\d+)(?:;\S*)?$`)
	// The classic banner printed without --parsable.
	bannerRe = regexp.MustCompile(`^Submitted batch job (\d+)$`)
	// One job id per line in squeue's JobId-only listings. Array tasks
	// print as <id>_<index>, pending array parents as <id>_[<range>] and
	// heterogeneous job components as <id>+<offset>.
	squeueIDRe = regexp.MustCompile(`^\d+(_(\d+|\[[0-9,%:-]+\]))?(\+\d+)?$`)
	// "slurm 23.02.1" from sbatch --version.
	versionRe = regexp.MustCompile(`^slurm\s+(\d+(?:\.\d+)*)`)
)

// ParseJobID extracts the job id from sbatch output. Both the --parsable
// form and the classic "Submitted batch job <id>" banner are recognised;
// warning lines printed before the id are skipped.
func ParseJobID(out string) (JobID, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if m := parsableRe.FindStringSubmatch(line); m != nil {
			return JobID(m[1]), nil
		}
		if m := bannerRe.FindStringSubmatch(line); m != nil {
			return JobID(m[1]), nil
		}
	}
	return "", &ParseError{Output: out, Reason: "no job id in sbatch output"}
}

// mapState folds a SLURM state token onto the coarse JobState set. sacct
// suffixes cancellations with the requesting uid ("CANCELLED by 1000").
func mapState(raw string) JobState {
	state := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexByte(state, ' '); i >= 0 {
		state = state[:i]
	}
	switch state {
	case "PENDING", "CONFIGURING", "REQUEUED", "REQUEUE_HOLD", "RESV_DEL_HOLD":
		return JobStatePending
	case "RUNNING", "COMPLETING", "SUSPENDED", "RESIZING", "STAGE_OUT":
		return JobStateRunning
	case "COMPLETED":
		return JobStateCompleted
	case "FAILED", "NODE_FAIL", "BOOT_FAIL", "OUT_OF_MEMORY", "TIMEOUT", "DEADLINE":
		return JobStateFailed
	case "CANCELLED", "PREEMPTED", "REVOKED":
		return JobStateCancelled
	default:
		return JobStateUnknown
	}
}

// queueFormat is the pipe-delimited squeue output parseQueue understands:
// id, name, user, state, partition, time used, reason/nodelist.
const queueFormat = `'%i|%j|%u|%T|%P|%M|%R'`

// parseQueue turns squeue rows into entries. Lines that do not carry all
// seven columns (warnings mixed into combined output) are skipped.
func parseQueue(out string) []QueueEntry {
	entries := []QueueEntry{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 7)
		if len(fields) < 7 {
			continue
		}
		entries = append(entries, QueueEntry{
			JobID:     JobID(fields[0]),
			Name:      fields[1],
			User:      fields[2],
			State:     mapState(fields[3]),
			RawState:  fields[3],
			Partition: fields[4],
			Elapsed:   fields[5],
			Reason:    fields[6],
		})
	}
	return entries
}

// countJobIDs counts the job id lines of a JobId-only squeue listing,
// ignoring anything that does not look like an id.
func countJobIDs(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if squeueIDRe.MatchString(strings.TrimSpace(line)) {
			n++
		}
	}
	return n
}

func firstNonBlank(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// formatDuration renders a walltime in sbatch's [days-]hours:minutes:seconds
// form.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	s := d - m*time.Minute
	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, h, m, int(s.Seconds()))
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s.Seconds()))
}

// parseVersion extracts the release from the sbatch version banner.
func parseVersion(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if m := versionRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1], nil
		}
	}
	return "", &ParseError{Output: out, Reason: "unrecognised version banner"}
}
