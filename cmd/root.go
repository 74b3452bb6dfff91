// Package cmd implements the slurm-api command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/config"
	"github.com/squarefactory/slurm-api/executor"
	"github.com/squarefactory/slurm-api/scheduler"
)

var (
	cfgPath string

	cfg   *config.Config
	slurm *scheduler.Slurm
)

var rootCmd = &cobra.Command{
	Use:   "slurm-api",
	Short: "Submit and track batch jobs through the local scheduler commands.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if slurm != nil {
			return nil
		}
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = c
		slurm = scheduler.NewSlurm(newExecutor(cfg), scheduler.Options{
			User:             cfg.User,
			BinDir:           cfg.BinDir,
			DefaultPartition: cfg.DefaultPartition,
			DefaultJobName:   cfg.DefaultJobName,
			OutputPattern:    cfg.OutputPattern,
			ErrorPattern:     cfg.ErrorPattern,
			CommandTimeout:   cfg.CommandTimeout(),
		})
		return nil
	},
}

// newExecutor picks impersonation only when the config names an account.
// Impersonation needs root (or CAP_SETUID); without it commands run as the
// service user.
func newExecutor(cfg *config.Config) scheduler.Executor {
	if cfg.User != "" {
		return &executor.Shell{Dir: cfg.WorkDir}
	}
	return &executor.Local{Dir: cfg.WorkDir}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to the yaml config (default $CONFIG_PATH)")
}
