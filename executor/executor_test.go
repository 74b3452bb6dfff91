//go:build unit

package executor_test

import (
	"context"
	"testing"

	"github.com/squarefactory/slurm-api/executor"
	"github.com/stretchr/testify/require"
)

func TestLocalExec(t *testing.T) {
	e := &executor.Local{}

	out, err := e.ExecAs(context.Background(), "ignored", "printf hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestLocalExecDir(t *testing.T) {
	dir := t.TempDir()
	e := &executor.Local{Dir: dir}

	out, err := e.ExecAs(context.Background(), "", "pwd")
	require.NoError(t, err)
	require.Contains(t, out, dir)
}

func TestLocalExecCombinedOutput(t *testing.T) {
	e := &executor.Local{}

	out, err := e.ExecAs(context.Background(), "", "printf err >&2; printf out")
	require.NoError(t, err)
	require.Contains(t, out, "err")
	require.Contains(t, out, "out")
}

func TestLocalExecFailure(t *testing.T) {
	e := &executor.Local{}

	out, err := e.ExecAs(context.Background(), "", "printf doomed >&2; exit 3")
	require.Error(t, err)
	require.Contains(t, out, "doomed")
}

func TestLocalExecCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &executor.Local{}

	_, err := e.ExecAs(ctx, "", "sleep 10")
	require.Error(t, err)
}
