package cmd

import (
	"jira-sprints/web"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		return web.NewServer(client, newLogger()).Start(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
