package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "platform",
	Short: "Crowdsourced-research funding platform",
	Long: `platform runs the tournament and commit-graph reward service.
Contributors submit commits into funded tournament rounds; winning commits
split the round bounty, and the reward propagates through the commit
ancestry and across group collaborators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
