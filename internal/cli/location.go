package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/ui"
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage locations in a dataset",
}

var locationNewCmd = &cobra.Command{
	Use:   "new <dataset> [key=value]...",
	Short: "Create a new location, optionally annotated",
	Long: `Mints a new location in the dataset. Annotations given as key=value
pairs are attached immediately.

Examples:
  locus location new my-experiment
  locus location new my-experiment stain=dapi well=3`,
	Args: cobra.MinimumNArgs(1),
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

		loc, err := c.NewLocation(ds, anns)
		if err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(loc, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created location %d in %s", loc.ID, ui.DatasetName(string(ds.URI))))
		return nil
	},
}

func init() {
	locationCmd.AddCommand(locationNewCmd)
	rootCmd.AddCommand(locationCmd)
}
