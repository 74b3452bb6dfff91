package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/scheduler"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Print the state of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := slurm.Status(cmd.Context(), scheduler.JobID(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

func init() { rootCmd.AddCommand(statusCmd) }
