package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/ui"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage datasets in the workspace",
}

var datasetNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new dataset",
	Long: `Creates a dataset directory with an empty index. The dataset URI is
derived from the name by slugging.

Examples:
  locus dataset new "My First Experiment"   (uri: my-first-experiment)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "")
		}
		defer c.Close()

		ds, err := c.NewDataset(args[0])
		if err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(ds, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created dataset %s", ui.DatasetName(string(ds.URI))))
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets in the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "")
		}
		defer c.Close()

		datasets, err := c.Datasets()
		if err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(datasets, &Meta{Count: len(datasets)})
			return nil
		}

		if len(datasets) == 0 {
			fmt.Println("No datasets in this workspace.")
			fmt.Println(ui.Hint("Run 'locus dataset new <name>' to create one"))
			return nil
		}

		cols := ui.NewColumns(2)
		for _, ds := range datasets {
			cols.AddRow(string(ds.URI), ds.Name)
		}
		fmt.Print(cols.String())
		fmt.Println(ui.Hint(ui.Count(len(datasets), "dataset", "datasets")))
		return nil
	},
}

var datasetInfoCmd = &cobra.Command{
	Use:   "info <uri>",
	Short: "Show dataset statistics and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "")
		}
		defer c.Close()

		ds, err := resolveDataset(c, args[0])
		if err != nil {
			return handleDomainError(err)
		}
		stats, err := c.Stats(ds)
		if err != nil {
			return handleDomainError(err)
		}
		description, err := c.GetDescription(ds)
		if err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"dataset":     ds,
				"stats":       stats,
				"description": description,
			}, nil)
			return nil
		}

		fmt.Println(ui.Header(ds.Name))
		fmt.Printf("%s  %s\n", ui.Muted.Render("URI:        "), ui.DatasetName(string(ds.URI)))
		fmt.Printf("%s  %d\n", ui.Muted.Render("Locations:  "), stats.LocationCount)
		fmt.Printf("%s  %d\n", ui.Muted.Render("Data:       "), stats.DataCount)
		fmt.Printf("%s  %d\n", ui.Muted.Render("Keys:       "), stats.KeyCount)
		fmt.Printf("%s  %d\n", ui.Muted.Render("Annotations:"), stats.AnnotationCount)
		for key, value := range description {
			fmt.Printf("%s: %v\n", ui.Muted.Render(key), value)
		}
		return nil
	},
}

var datasetDescribeCmd = &cobra.Command{
	Use:   "describe <uri> <key=value>...",
	Short: "Attach description fields to a dataset",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "")
		}
		defer c.Close()

		ds, err := resolveDataset(c, args[0])
		if err != nil {
			return handleDomainError(err)
		}
		anns, err := parseAnnotations(args[1:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		description, err := c.GetDescription(ds)
		if err != nil {
			return handleDomainError(err)
		}
		if description == nil {
			description = make(map[string]interface{})
		}
		for key, value := range anns {
			description[key] = value.Text
		}
		if err := c.SetDescription(ds, description); err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(description, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated description of %s", ui.DatasetName(string(ds.URI))))
		return nil
	},
}

var datasetDefaultCmd = &cobra.Command{
	Use:   "default <uri>",
	Short: "Set the workspace's default dataset",
	Long: `Sets the dataset that commands use when given "." in place of a
dataset URI. The choice is stored in the workspace's locus.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "")
		}
		defer c.Close()

		ds, err := c.GetDataset(uriArg(args[0]))
		if err != nil {
			return handleDomainError(err)
		}

		cfg, err := c.Workspace().LoadConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		cfg.DefaultDataset = string(ds.URI)
		if err := c.Workspace().SaveConfig(cfg); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(ds, nil)
			return nil
		}
		fmt.Println(ui.Successf("Default dataset is now %s", ui.DatasetName(string(ds.URI))))
		return nil
	},
}

func init() {
	datasetCmd.AddCommand(datasetNewCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetInfoCmd)
	datasetCmd.AddCommand(datasetDescribeCmd)
	datasetCmd.AddCommand(datasetDefaultCmd)
	rootCmd.AddCommand(datasetCmd)
}
