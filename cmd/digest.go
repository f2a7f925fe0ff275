// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/repodigest/repodigest/internal/config"
	"github.com/repodigest/repodigest/internal/gateway"
	"github.com/repodigest/repodigest/internal/notifier"
	"github.com/repodigest/repodigest/internal/summarizer"
	"github.com/repodigest/repodigest/internal/usecase"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Summarize one repository's recent activity and email it",
	Long: `Collects the repository's pull requests, issues, commits, and discussions
from the trailing activity window, generates a summary with Gemini, and
emails it to the recipient via EmailJS.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		repoURL, _ := cmd.Flags().GetString("url")
		email, _ := cmd.Flags().GetString("email")
		windowFlag, _ := cmd.Flags().GetDuration("window")

		pipeline, err := buildPipeline(cmd, logger, windowFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := pipeline.Run(cmd.Context(), repoURL, email); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Summary sent to %s\n", email)
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().StringP("url", "u", "", "GitHub repository URL (required)")
	digestCmd.Flags().StringP("email", "e", "", "Recipient email address (required)")
	digestCmd.Flags().Duration("window", 0, "Trailing activity window (default 168h, overrides config)")
	digestCmd.MarkFlagRequired("url")
	digestCmd.MarkFlagRequired("email")
}

// buildPipeline loads configuration and wires the gateway, summarizer,
// and notifier into a pipeline. A zero windowOverride keeps the
// configured window.
func buildPipeline(cmd *cobra.Command, logger *log.Logger, windowOverride time.Duration) (*usecase.Pipeline, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	window := cfg.Window
	if windowOverride > 0 {
		window = windowOverride
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	geminiClient, err := summarizer.NewGeminiClient(cfg.GeminiAPIKey, logger)
	if err != nil {
		return nil, err
	}
	emailClient, err := notifier.NewEmailJSClient(cfg.EmailJS, logger)
	if err != nil {
		return nil, err
	}

	return usecase.NewPipeline(githubGateway, geminiClient, emailClient, logger, window), nil
}
