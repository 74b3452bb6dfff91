package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/scheduler"
)

var (
	cancelName string
	cancelUser string
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [job-id]",
	Short: "Cancel a job by id, or every job with a name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return slurm.Cancel(cmd.Context(), scheduler.JobID(args[0]))
		}
		if cancelName == "" {
			return fmt.Errorf("a job id or --name is required")
		}
		return slurm.CancelByName(cmd.Context(), &scheduler.CancelByNameRequest{
			Name: cancelName,
			User: cancelUser,
		})
	},
}

func init() {
	cancelCmd.Flags().StringVar(&cancelName, "name", "", "Cancel every job with this name")
	cancelCmd.Flags().StringVar(&cancelUser, "user", "", "Cancel as this user")
	rootCmd.AddCommand(cancelCmd)
}
