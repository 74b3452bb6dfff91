package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/scheduler"
)

var (
	queueName   string
	queueStates string
	queueUser   string
	queueJSON   bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List queued jobs (optionally filtered by name and states)",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := slurm.Queue(cmd.Context(), &scheduler.QueueRequest{
			Name:   queueName,
			States: queueStates,
			User:   queueUser,
		})
		if err != nil {
			return err
		}

		if queueJSON {
			b, err := json.MarshalIndent(jobs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		for _, j := range jobs {
			fmt.Printf("%-10s  %-20s  %-10s  %-10s  %-10s  %10s  %s\n",
				j.JobID, j.Name, j.User, j.State, j.Partition, j.Elapsed, j.Reason)
		}
		return nil
	},
}

func init() {
	queueCmd.Flags().StringVar(&queueName, "name", "", "Filter by job name")
	queueCmd.Flags().StringVar(&queueStates, "states", "", "Filter by state list (e.g. PENDING,RUNNING)")
	queueCmd.Flags().StringVar(&queueUser, "user", "", "Filter by job owner")
	queueCmd.Flags().BoolVar(&queueJSON, "json", false, "JSON output")
	rootCmd.AddCommand(queueCmd)
}
