package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relentron",
	Short: "Relentron website backend and enquiry client",
	Long: `relentron runs the website's enquiry intake API and can submit enquiries
to a running instance from the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enquireCmd)
	rootCmd.AddCommand(versionCmd)

	initEnquireFlags()
	initVersionFlags()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
