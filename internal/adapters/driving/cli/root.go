// Package cli implements the codewiki-mcp command line: the MCP server
// command plus terminal counterparts of every tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/cloudmeru/codewiki-mcp/internal/app"
	"github.com/cloudmeru/codewiki-mcp/internal/config"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

var (
	version = "dev"

	verbose    bool
	configFile string
	envFile    string

	// application is built before any command that needs it runs.
	// Tests assign it directly.
	application *app.App
	appMu       sync.Mutex
)

// needsApp marks commands that drive the services.
const needsApp = "needs-app"

var rootCmd = &cobra.Command{
	Use:   "codewiki-mcp",
	Short: "Google CodeWiki for AI assistants",
	Long: `codewiki-mcp reads Google CodeWiki pages and asks its chat through a
headless browser, and serves both as Model Context Protocol tools.

Repositories can be given as a full URL, as owner/repo shorthand, or as a
bare keyword such as "vue" that is resolved by search.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load before the environment")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. The application, if one was built, is
// closed before returning.
func Execute(ctx context.Context) error {
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// Close releases the application. Safe to call repeatedly.
func Close() {
	closeApp()
}

func setup(cmd *cobra.Command, _ []string) error {
	appMu.Lock()
	defer appMu.Unlock()
	if cmd.Annotations[needsApp] == "" || application != nil {
		return nil
	}

	cfg, err := config.Load(config.Sources{File: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	logger.SetVerbose(verbose || cfg.Verbose)

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	application = a
	return nil
}

func closeApp() {
	appMu.Lock()
	defer appMu.Unlock()
	if application != nil {
		application.Close()
	}
}

// requireApp returns the application or an error when none was built.
func requireApp() (*app.App, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if application == nil {
		return nil, errors.New("services not configured")
	}
	return application, nil
}

// withApp marks cmd as needing the application.
func withApp(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsApp] = "true"
	return cmd
}
