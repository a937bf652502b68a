package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/config"
	"github.com/datalocus/locus/internal/ui"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage configured workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		workspaces := cfg.ListWorkspaces()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default":    cfg.DefaultWorkspace,
				"workspaces": workspaces,
			}, &Meta{Count: len(workspaces)})
			return nil
		}

		if len(workspaces) == 0 {
			fmt.Println("No workspaces configured.")
			fmt.Println(ui.Hint("Run 'locus init <path> --name <name>' to create one"))
			return nil
		}

		names := make([]string, 0, len(workspaces))
		for name := range workspaces {
			names = append(names, name)
		}
		sort.Strings(names)

		cols := ui.NewColumns(3)
		for _, name := range names {
			marker := " "
			if name == cfg.DefaultWorkspace {
				marker = "*"
			}
			cols.AddRow(marker, name, workspaces[name])
		}
		fmt.Print(cols.String())
		return nil
	},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a workspace in the global config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path, err := filepath.Abs(args[1])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if cfg.Workspaces == nil {
			cfg.Workspaces = make(map[string]string)
		}
		cfg.Workspaces[name] = path
		if cfg.DefaultWorkspace == "" {
			cfg.DefaultWorkspace = name
		}

		if err := config.Save(cfg); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"name": name, "path": path}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Registered workspace '%s' at %s", name, ui.DatasetName(path)))
		return nil
	},
}

var workspaceDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.Load()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if _, ok := cfg.Workspaces[name]; !ok {
			return handleErrorMsg(ErrWorkspaceNotFound,
				fmt.Sprintf("workspace '%s' not found in config", name),
				"Run 'locus workspace list' to see configured workspaces")
		}
		cfg.DefaultWorkspace = name

		if err := config.Save(cfg); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"default": name}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Default workspace is now '%s'", name))
		return nil
	},
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceDefaultCmd)
	rootCmd.AddCommand(workspaceCmd)
}
