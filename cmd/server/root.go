package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "streamflow",
		Short:        "StreamFlow dashboard for uploaded videos and scheduled streams",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: cmd/config/config.yaml)")

	serve := newServeCmd(flags)
	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(flags))
	root.AddCommand(newVersionCmd())

	// bare "streamflow" serves
	root.RunE = serve.RunE
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
