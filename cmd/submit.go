package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/scheduler"
)

var (
	submitName      string
	submitScript    string
	submitCommand   string
	submitStdin     bool
	submitPreamble  []string
	submitPartition string
	submitQOS       string
	submitCPUs      int
	submitGPUs      int
	submitMemoryMB  int
	submitTime      time.Duration
	submitChdir     string
	submitOutput    string
	submitError     string
	submitEnv       []string
	submitUser      string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a batch job and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &scheduler.SubmitRequest{
			Name:       submitName,
			User:       submitUser,
			ScriptPath: submitScript,
			Command:    submitCommand,
			Preamble:   submitPreamble,
			Partition:  submitPartition,
			QOS:        submitQOS,
			CPUs:       submitCPUs,
			GPUs:       submitGPUs,
			MemoryMB:   submitMemoryMB,
			TimeLimit:  submitTime,
			Chdir:      submitChdir,
			Output:     submitOutput,
			Error:      submitError,
		}

		if submitStdin {
			body, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			req.Script = string(body)
		}

		if len(submitEnv) > 0 {
			env := make(map[string]string, len(submitEnv))
			for _, kv := range submitEnv {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --env %q, want KEY=VALUE", kv)
				}
				env[k] = v
			}
			req.Env = env
		}

		jobID, err := slurm.Submit(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(jobID)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitName, "name", "", "Job name")
	submitCmd.Flags().StringVar(&submitScript, "script", "", "Path to an existing batch script")
	submitCmd.Flags().StringVar(&submitCommand, "command", "", "Single shell command to run")
	submitCmd.Flags().BoolVar(&submitStdin, "stdin", false, "Read the script body from stdin")
	submitCmd.Flags().StringArrayVar(&submitPreamble, "preamble", nil, "Shell line run before the payload (repeatable)")
	submitCmd.Flags().StringVar(&submitPartition, "partition", "", "Partition to submit to")
	submitCmd.Flags().StringVar(&submitQOS, "qos", "", "Quality of service")
	submitCmd.Flags().IntVar(&submitCPUs, "cpus", 0, "CPUs per task")
	submitCmd.Flags().IntVar(&submitGPUs, "gpus", 0, "GPUs for the job")
	submitCmd.Flags().IntVar(&submitMemoryMB, "mem", 0, "Memory in MB")
	submitCmd.Flags().DurationVar(&submitTime, "time", 0, "Wall clock limit (e.g. 2h30m)")
	submitCmd.Flags().StringVar(&submitChdir, "chdir", "", "Working directory of the job")
	submitCmd.Flags().StringVar(&submitOutput, "output", "", "Stdout file pattern")
	submitCmd.Flags().StringVar(&submitError, "error", "", "Stderr file pattern")
	submitCmd.Flags().StringArrayVar(&submitEnv, "env", nil, "KEY=VALUE exported to the job (repeatable)")
	submitCmd.Flags().StringVar(&submitUser, "user", "", "Submit as this user")
	rootCmd.AddCommand(submitCmd)
}
