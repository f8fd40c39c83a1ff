package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relentron/website/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Print the build of this binary. With --api the running server's build is
fetched and compared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "relentron %s\n", version.Info())

		api, _ := cmd.Flags().GetString("api")
		if api == "" {
			return nil
		}

		server, err := version.FetchServerInfo(background(cmd), api)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "server    %s (commit %s, %s)\n", server.Version, server.GitCommit, server.Platform)

		switch version.CompareVersions(version.Version, server.Version) {
		case -1:
			fmt.Fprintln(out, "This client is older than the server")
		case 1:
			fmt.Fprintln(out, "This client is newer than the server")
		}
		return nil
	},
}

func initVersionFlags() {
	versionCmd.Flags().String("api", "", "Also report the build of the server at this URL")
}
