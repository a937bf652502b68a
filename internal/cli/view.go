package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/table"
	"github.com/datalocus/locus/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Render pivot views of a dataset",
	Long: `Views pivot annotations into columns: one column per distinct key, one
row per entity. Cells are empty where an entity lacks the key.`,
}

var viewLocationIDs []int64

var viewLocationsCmd = &cobra.Command{
	Use:   "locations <dataset>",
	Short: "Pivot view over all locations",
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
		tbl, err := c.ViewLocations(ds)
		if err != nil {
			return handleDomainError(err)
		}

		printView(tbl)
		return nil
	},
}

var viewDataCmd = &cobra.Command{
	Use:   "data <dataset>",
	Short: "Pivot view over data, joined with location annotations",
	Long: `Each row is one data entry. Location annotation columns carry the
values of the entry's location, so co-located entries share them.

Examples:
  locus view data my-experiment
  locus view data my-experiment --location 3`,
	Args: cobra.ExactArgs(1),
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

		var locations []model.Location
		for _, id := range viewLocationIDs {
			locations = append(locations, model.Location{Dataset: ds, ID: id})
		}

		tbl, err := c.ViewData(ds, locations)
		if err != nil {
			return handleDomainError(err)
		}

		printView(tbl)
		return nil
	},
}

// printView renders a pivot table, as JSON objects keyed by column in JSON
// mode and as a terminal table otherwise.
func printView(tbl *table.Table) {
	if isJSONOutput() {
		rows := make([]map[string]string, 0, tbl.Len())
		for r := 0; r < tbl.Len(); r++ {
			row := make(map[string]string)
			for _, col := range tbl.Columns() {
				if value, ok := tbl.Get(r, col); ok {
					row[col] = value
				}
			}
			rows = append(rows, row)
		}
		outputSuccess(rows, &Meta{Count: len(rows)})
		return
	}

	if tbl.Len() == 0 {
		fmt.Println("No entries.")
		return
	}
	fmt.Println(ui.RenderTable(ui.NewDisplayContext(), tbl))
}

func init() {
	viewDataCmd.Flags().Int64SliceVar(&viewLocationIDs, "location", nil, "Restrict the view to these location ids (repeatable)")
	viewCmd.AddCommand(viewLocationsCmd)
	viewCmd.AddCommand(viewDataCmd)
	rootCmd.AddCommand(viewCmd)
}
