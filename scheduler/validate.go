package scheduler

import (
	"fmt"
	"os"
	"regexp"
)

// Command lines are assembled by string formatting, so validation is the
// injection barrier: every interpolated value must match one of these
// character sets, and anything else is rejected before a subprocess runs.
var (
	identRe  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	pathRe   = regexp.MustCompile(`^[A-Za-z0-9._/%+-]+$`)
	statesRe = regexp.MustCompile(`^[A-Za-z_,]+$`)
	envKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// Env values end up inside --export's comma-separated list, so commas
	// and whitespace are out along with the shell metacharacters.
	envValRe = regexp.MustCompile(`^[A-Za-z0-9._/:@+=-]*$`)
)

// Validate checks the request before any subprocess is invoked.
func (r *SubmitRequest) Validate() error {
	payloads := 0
	for _, p := range []string{r.ScriptPath, r.Script, r.Command} {
		if p != "" {
			payloads++
		}
	}
	if payloads != 1 {
		return &ValidationError{
			Field:  "script",
			Reason: "exactly one of ScriptPath, Script or Command must be set",
		}
	}
	if r.ScriptPath != "" {
		if !pathRe.MatchString(r.ScriptPath) {
			return &ValidationError{Field: "script path", Reason: "contains unsupported characters"}
		}
		info, err := os.Stat(r.ScriptPath)
		if err != nil {
			return &ValidationError{Field: "script path", Reason: err.Error()}
		}
		if !info.Mode().IsRegular() {
			return &ValidationError{Field: "script path", Reason: "not a regular file"}
		}
	}
	if err := checkIdent("name", r.Name); err != nil {
		return err
	}
	if err := checkIdent("user", r.User); err != nil {
		return err
	}
	if err := checkIdent("partition", r.Partition); err != nil {
		return err
	}
	if err := checkIdent("qos", r.QOS); err != nil {
		return err
	}
	if r.CPUs < 0 {
		return &ValidationError{Field: "cpus", Reason: "must not be negative"}
	}
	if r.GPUs < 0 {
		return &ValidationError{Field: "gpus", Reason: "must not be negative"}
	}
	if r.MemoryMB < 0 {
		return &ValidationError{Field: "memory", Reason: "must not be negative"}
	}
	if r.TimeLimit < 0 {
		return &ValidationError{Field: "time limit", Reason: "must not be negative"}
	}
	if err := checkPath("chdir", r.Chdir); err != nil {
		return err
	}
	if err := checkPath("output", r.Output); err != nil {
		return err
	}
	if err := checkPath("error", r.Error); err != nil {
		return err
	}
	for k, v := range r.Env {
		if !envKeyRe.MatchString(k) {
			return &ValidationError{Field: "env", Reason: fmt.Sprintf("bad variable name %q", k)}
		}
		if !envValRe.MatchString(v) {
			return &ValidationError{Field: "env", Reason: fmt.Sprintf("unsupported characters in value of %s", k)}
		}
	}
	return nil
}

func checkIdent(field, value string) error {
	if value == "" {
		return nil
	}
	if !identRe.MatchString(value) {
		return &ValidationError{Field: field, Reason: "contains unsupported characters"}
	}
	return nil
}

func checkPath(field, value string) error {
	if value == "" {
		return nil
	}
	if !pathRe.MatchString(value) {
		return &ValidationError{Field: field, Reason: "contains unsupported characters"}
	}
	return nil
}

// validateJobID admits any opaque scheduler identifier, including the array
// and heterogeneous forms squeue prints; it only guards the command line.
func validateJobID(id JobID) error {
	if id == "" {
		return &ValidationError{Field: "job id", Reason: "must not be empty"}
	}
	if !identRe.MatchString(string(id)) && !squeueIDRe.MatchString(string(id)) {
		return &ValidationError{Field: "job id", Reason: "contains unsupported characters"}
	}
	return nil
}

func validateJobName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !identRe.MatchString(name) {
		return &ValidationError{Field: "name", Reason: "contains unsupported characters"}
	}
	return nil
}

// validateFilters guards the optional name/states/user filters of queue and
// count requests.
func validateFilters(name, states, user string) error {
	if err := checkIdent("name", name); err != nil {
		return err
	}
	if err := checkIdent("user", user); err != nil {
		return err
	}
	if states != "" && !statesRe.MatchString(states) {
		return &ValidationError{Field: "states", Reason: "contains unsupported characters"}
	}
	return nil
}
