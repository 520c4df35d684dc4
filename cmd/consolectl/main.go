// consolectl операторский CLI к тому же REST API, что и веб-консоль.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/logger"
)

const (
	Version = "0.1.0"
	appName = "consolectl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions флаги, общие для всех команд.
type globalOptions struct {
	baseURL string
	token   string
	timeout time.Duration
	debug   bool
}

func (o *globalOptions) client() *api.Client {
	return api.NewClient(o.baseURL, o.timeout)
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Proposals console command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			logger.Init(level)
			logger.SetTextFormatter()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "api", envOr("API_BASE_URL", "http://localhost:5000"), "Backend REST API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CONSOLE_TOKEN"), "Bearer token (see `consolectl login`)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Backend request timeout")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log backend calls")

	cmd.AddCommand(
		loginCmd(opts),
		whoamiCmd(opts),
		proposalsCmd(opts),
		usersCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
