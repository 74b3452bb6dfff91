package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Print configured cluster resource totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := slurm.Resources(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("nodes=%d cpus=%d gpus=%d\n", res.Nodes, res.CPUs, res.GPUs)
		return nil
	},
}

func init() { rootCmd.AddCommand(clusterCmd) }
