//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/squarefactory/slurm-api/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "/tmp", cfg.WorkDir)
	require.Equal(t, 60*time.Second, cfg.CommandTimeout())
	require.Empty(t, cfg.User)
	require.Empty(t, cfg.BinDir)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_address: ":9090"
user: slurm
bin_dir: /opt/slurm/bin
work_dir: /var/lib/slurm-api
default_partition: batch
default_job_name: api_job
command_timeout_seconds: 30
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddress)
	require.Equal(t, "slurm", cfg.User)
	require.Equal(t, "/opt/slurm/bin", cfg.BinDir)
	require.Equal(t, "/var/lib/slurm-api", cfg.WorkDir)
	require.Equal(t, "batch", cfg.DefaultPartition)
	require.Equal(t, "api_job", cfg.DefaultJobName)
	require.Equal(t, 30*time.Second, cfg.CommandTimeout())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: slurm\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "slurm", cfg.User)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, 60*time.Second, cfg.CommandTimeout())
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_address: ':7070'\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.ListenAddress)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_address: [:::\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}
