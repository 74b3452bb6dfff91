package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/scheduler"
)

var (
	countName   string
	countStates string
	countUser   string
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count queued jobs (optionally filtered by name and states)",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := slurm.CountJobs(cmd.Context(), &scheduler.CountRequest{
			Name:   countName,
			States: countStates,
			User:   countUser,
		})
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	},
}

func init() {
	countCmd.Flags().StringVar(&countName, "name", "", "Filter by job name")
	countCmd.Flags().StringVar(&countStates, "states", "", "Filter by state list (e.g. PENDING,RUNNING)")
	countCmd.Flags().StringVar(&countUser, "user", "", "Filter by job owner")
	rootCmd.AddCommand(countCmd)
}
