package app

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "venue-api",
		Short:         "Venue table booking API",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "path to the YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start(configPath)
		},
	}

	var reset bool
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Migrate(configPath, reset)
		},
	}
	migrate.Flags().BoolVar(&reset, "reset", false, "drop every table before migrating")

	root.AddCommand(serve, migrate)

	return root
}
