// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/config"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path (rare)
	configPath        string

	// Resolved values
	resolvedWorkspacePath string
	cfg                   *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "locus",
	Short: "Locus - an annotation-indexed dataset catalog",
	Long: `Locus indexes datasets of located data by free-form annotations and
answers superset queries over them: every entity whose annotations
contain the requested key=value pairs.

Datasets live as plain directories in a workspace, each with its own
SQLite index. Commands taking a dataset URI accept "." for the
workspace's default dataset (see 'locus dataset default').`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip workspace resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "workspace", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "workspace") {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Resolve workspace path: explicit path > named workspace > default
		if workspacePathFlag != "" {
			resolvedWorkspacePath = workspacePathFlag
		} else if workspaceName != "" {
			resolvedWorkspacePath, err = cfg.GetWorkspacePath(workspaceName)
			if err != nil {
				return fmt.Errorf("workspace '%s' not found\n\nRun 'locus workspace list' to see configured workspaces", workspaceName)
			}
		} else {
			resolvedWorkspacePath, err = cfg.GetDefaultWorkspacePath()
			if err != nil {
				return fmt.Errorf(`no workspace specified

Either:
  1. Use --workspace <name> (from config)
  2. Use --workspace-path /path/to/workspace
  3. Set default_workspace in ~/.config/locus/config.toml
  4. Run 'locus init /path/to/new/workspace' to create one`)
			}
		}

		// Verify workspace exists
		if _, err := os.Stat(resolvedWorkspacePath); os.IsNotExist(err) {
			return fmt.Errorf("workspace not found: %s\n\nRun 'locus init %s' to create it", resolvedWorkspacePath, resolvedWorkspacePath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "Explicit path to workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getWorkspacePath returns the resolved workspace path.
func getWorkspacePath() string {
	return resolvedWorkspacePath
}

func loadGlobalConfig() (*config.Config, error) {
	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, nil
}
