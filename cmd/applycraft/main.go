// Command applycraft runs the ApplyCraft API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "applycraft",
	Short:         "ApplyCraft job application tracker API",
	Long:          "ApplyCraft tracks job applications and drafts outreach messages for them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
