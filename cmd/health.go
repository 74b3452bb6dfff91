package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the scheduler responds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := slurm.HealthCheck(cmd.Context()); err != nil {
			return err
		}
		version, err := slurm.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("ok (slurm %s)\n", version)
		return nil
	},
}

func init() { rootCmd.AddCommand(healthCmd) }
