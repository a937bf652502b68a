package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/config"
	"github.com/datalocus/locus/internal/ui"
	"github.com/datalocus/locus/internal/workspace"
)

var (
	initName    string
	initDefault bool
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new workspace",
	Long: `Creates a new workspace directory and optionally registers it in the
global config.

Examples:
  locus init ~/datasets
  locus init ~/datasets --name lab --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		if _, err := workspace.Open(path); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		fmt.Println(ui.Successf("Created workspace at %s", ui.DatasetName(path)))

		if initName == "" && !initDefault {
			fmt.Println(ui.Hint("Register it with 'locus workspace add <name> " + path + "'"))
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Workspaces == nil {
			cfg.Workspaces = make(map[string]string)
		}

		name := initName
		if name == "" {
			name = filepath.Base(path)
		}
		cfg.Workspaces[name] = path
		if initDefault || cfg.DefaultWorkspace == "" {
			cfg.DefaultWorkspace = name
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Println(ui.Successf("Registered workspace '%s'", name))
		if cfg.DefaultWorkspace == name {
			fmt.Println(ui.Hint("It is now the default workspace"))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Register the workspace under this name in the global config")
	initCmd.Flags().BoolVar(&initDefault, "default", false, "Make this the default workspace")
	rootCmd.AddCommand(initCmd)
}
