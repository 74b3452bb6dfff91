// Package executor runs scheduler commands through a shell, either as the
// calling process or impersonating another local user.
package executor

import (
	"context"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"
)

// Shell executes commands as the named user via setuid. The process must run
// as root (or hold CAP_SETUID) for the credential switch to succeed.
type Shell struct {
	// Dir is the working directory for every command. Empty means the
	// process working directory.
	Dir string
}

func (e *Shell) ExecAs(ctx context.Context, user string, cmd string) (string, error) {
	uid, err := lookupUserID(user)
	if err != nil {
		return "", err
	}

	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	c.Dir = e.Dir
	c.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{
			Uid: uid,
		},
	}

	out, err := c.CombinedOutput()
	return string(out), err
}

// Local executes commands as the current process user. The user argument is
// ignored; it exists so Local satisfies the same contract as Shell for
// deployments where impersonation is unavailable or unneeded.
type Local struct {
	Dir string
}

func (e *Local) ExecAs(ctx context.Context, _ string, cmd string) (string, error) {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	c.Dir = e.Dir

	out, err := c.CombinedOutput()
	return string(out), err
}

func lookupUserID(username string) (uint32, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return 0, err
	}

	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, err
	}

	return uint32(uid), nil
}
