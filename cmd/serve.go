// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repodigest/repodigest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the summary pipeline behind an HTTP endpoint",
	Long: `Starts an HTTP server accepting generateSummary requests on
POST /api/v1/summaries and replying with a success/error result.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		addr, _ := cmd.Flags().GetString("addr")

		pipeline, err := buildPipeline(cmd, logger, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(addr, pipeline, logger)
		if err := srv.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address for the HTTP server")
}
