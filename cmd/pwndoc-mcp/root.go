package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pwndoc-mcp/pwndoc-go/pkg/pwndoc"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "pwndoc-mcp",
	Short:         "MCP server exposing a PwnDoc instance to AI assistants",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pwndoc-mcp %s\n", pwndoc.Version)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity and authentication against the configured server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		status := client.TestConnection(cmd.Context())
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if status.Status != "ok" {
			os.Exit(1)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pwndoc.LoadConfig(configFile)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if problems := cfg.Validate(); len(problems) > 0 {
			fmt.Fprintf(os.Stderr, "\nconfiguration problems:\n  %s\n", strings.Join(problems, "\n  "))
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location in effect",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(pwndoc.ConfigPath())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.pwndoc-mcp/config.json)")

	configCmd.AddCommand(configShowCmd, configPathCmd)
	rootCmd.AddCommand(serveCmd, testCmd, toolsCmd, configCmd, versionCmd)
}

// newClient builds a client from the config file and environment, logging to
// stderr at the configured level.
func newClient() (*pwndoc.Client, error) {
	cfg, err := pwndoc.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	return pwndoc.NewClient(cfg, &pwndoc.ClientOptions{
		Logger:    newLogger(cfg.LogLevel),
		SentryDSN: os.Getenv("PWNDOC_SENTRY_DSN"),
	})
}
