package cmd

import (
	"fmt"
	"os"

	"guest-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "guest-manager",
	Short: "Wedding Guest Manager Service",
	Long: `Guest Manager runs the wedding guest list backend: the public RSVP
surface, the administrative guest CRUD, and bulk CSV reconciliation of the
guest list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format: this is a CLI error, not a service log line.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
