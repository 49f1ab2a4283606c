package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/naka-gawa/github-profile/internal/config"
	"github.com/naka-gawa/github-profile/internal/gateway"
	"github.com/naka-gawa/github-profile/internal/render"
	"github.com/naka-gawa/github-profile/internal/usecase"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyzes a user's public repositories and writes a profile report",
	Long: `Fetches every public repository of a GitHub user, aggregates languages, commit
activity, keywords and topics, and writes the report as HTML or JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if user, _ := cmd.Flags().GetString("user"); user != "" {
			cfg.GitHubUser = user
		}
		if tmpl, _ := cmd.Flags().GetString("template"); tmpl != "" {
			cfg.Template = tmpl
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.OutputDir = output
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		stopWords, err := cfg.StopWords(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load stop words: %v\n", err)
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(cfg.AccessToken, gateway.Options{
			MaxBlobSize:  cfg.MaxBlobSize,
			ExcludePaths: cfg.ExcludePaths,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger, usecase.EngineOptions{
			StopWords: stopWords,
			Limits: usecase.Limits{
				Keywords: cfg.Limits.Keywords,
				Topics:   cfg.Limits.Topics,
				Starred:  cfg.Limits.Starred,
				Recent:   cfg.Limits.Recent,
			},
			MaxBlobSize: cfg.MaxBlobSize,
		})

		fmt.Fprintf(os.Stderr, "Analyzing public repositories of %s...\n", cfg.GitHubUser)
		summary, err := aggregator.Aggregate(ctx, cfg.GitHubUser)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate profile: %v\n", err)
			os.Exit(1)
		}

		var sink render.Sink = render.NewFileSink(cfg.OutputDir, cfg.Limits.Languages)
		path, err := sink.Render(summary, cfg.Template)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}
		if summary.Diagnostics.DegradedRepositories > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d repositories could only be partially analyzed.\n", summary.Diagnostics.DegradedRepositories)
		}
		fmt.Println(path)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("config", "c", config.DefaultPath, "Path to the YAML configuration file")
	reportCmd.Flags().StringP("user", "u", "", "GitHub user name (overrides github_user)")
	reportCmd.Flags().StringP("template", "t", "", "Report template: modern, plain or json")
	reportCmd.Flags().StringP("output", "o", "", "Output directory (overrides output_dir)")
}
