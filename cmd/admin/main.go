package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/imagerepo/cmd/admin/cmd"
	"github.com/templui/imagerepo/internal/config"
	"github.com/templui/imagerepo/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Administration tools for the image repo",
		SilenceUsage: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			logger.Init(logger.Options{Development: true})
		},
	}

	rootCmd.AddCommand(cmd.MigrateCmd(config.Load))
	rootCmd.AddCommand(cmd.UserCmd(config.Load))

	err := rootCmd.Execute()
	logger.Flush()
	if err != nil {
		os.Exit(1)
	}
}
