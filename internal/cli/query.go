package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/catalog"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/ui"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a dataset by annotations",
	Long: `Queries use superset semantics: an entity matches when its annotations
contain every requested key=value pair. Entities annotated with more
keys than requested still match.`,
}

var queryLocationIDs []int64

var queryDataCmd = &cobra.Command{
	Use:   "data <dataset> [key=value]...",
	Short: "Find data whose annotations contain the given pairs",
	Long: `Filter pairs may name location annotations, data annotations, or a mix
of both; the split is resolved automatically. With no pairs all data is
returned. With --location, data at the given locations is returned
instead (filters and --location are mutually exclusive).

Examples:
  locus query data my-experiment stain=dapi channel=0
  locus query data my-experiment --location 3 --location 7`,
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

		q := catalog.DataQuery{Annotations: anns}
		for _, id := range queryLocationIDs {
			q.Locations = append(q.Locations, model.Location{Dataset: ds, ID: id})
		}

		start := time.Now()
		results, err := c.QueryData(ds, q)
		if err != nil {
			return handleDomainError(err)
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(results, &Meta{Count: len(results), QueryTimeMs: elapsed})
			return nil
		}

		printDataRows(results)
		fmt.Println(ui.Hint(ui.Count(len(results), "result", "results")))
		return nil
	},
}

var queryLocationsCmd = &cobra.Command{
	Use:   "locations <dataset> [key=value]...",
	Short: "Find locations whose annotations contain the given pairs",
	Args:  cobra.MinimumNArgs(1),
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

		start := time.Now()
		locations, err := c.QueryLocations(ds, anns)
		if err != nil {
			return handleDomainError(err)
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(locations, &Meta{Count: len(locations), QueryTimeMs: elapsed})
			return nil
		}

		for _, loc := range locations {
			fmt.Println(loc.ID)
		}
		fmt.Println(ui.Hint(ui.Count(len(locations), "location", "locations")))
		return nil
	},
}

var queryTuplesCmd = &cobra.Command{
	Use:   "tuples <dataset> <filter>...",
	Short: "Find co-located data tuples, one entry per filter",
	Long: `Each filter is a comma-separated annotation set. A tuple pairs one
matching entry per filter, all at the same location.

Examples:
  locus query tuples my-experiment channel=0 channel=1
  locus query tuples my-experiment "stain=dapi,channel=0" channel=1`,
	Args: cobra.MinimumNArgs(2),
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
		filters, err := parseFilterArgs(args[1:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		start := time.Now()
		if isJSONOutput() {
			tuples, err := c.QueryDataTuples(ds, filters)
			if err != nil {
				return handleDomainError(err)
			}
			outputSuccess(tuples, &Meta{Count: len(tuples), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		tbl, err := c.ViewDataTuples(ds, filters)
		if err != nil {
			return handleDomainError(err)
		}
		fmt.Println(ui.RenderTable(ui.NewDisplayContext(), tbl))
		fmt.Println(ui.Hint(ui.Count(tbl.Len(), "tuple", "tuples")))
		return nil
	},
}

var queryGroupsCmd = &cobra.Command{
	Use:   "groups <dataset> <filter>...",
	Short: "Find independent data cohorts, one per filter",
	Long: `Each filter is a comma-separated annotation set. Unlike tuples, the
resulting cohorts are not joined on location.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComposite(args, func(c *catalog.Catalog, ds model.Dataset, filters []model.Annotations) ([][]model.DataInfo, error) {
			return c.QueryDataGroups(ds, filters)
		}, "group", "groups")
	},
}

func runComposite(args []string, query func(*catalog.Catalog, model.Dataset, []model.Annotations) ([][]model.DataInfo, error), singular, plural string) error {
	c, err := openCatalog()
	if err != nil {
		return handleError(ErrWorkspaceNotFound, err, "")
	}
	defer c.Close()

	ds, err := resolveDataset(c, args[0])
	if err != nil {
		return handleDomainError(err)
	}
	filters, err := parseFilterArgs(args[1:])
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	start := time.Now()
	results, err := query(c, ds, filters)
	if err != nil {
		return handleDomainError(err)
	}
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccess(results, &Meta{Count: len(results), QueryTimeMs: elapsed})
		return nil
	}

	for i, set := range results {
		fmt.Println(ui.Header(fmt.Sprintf("%s %d", singular, i+1)))
		printDataRows(set)
	}
	fmt.Println(ui.Hint(ui.Count(len(results), singular, plural)))
	return nil
}

func printDataRows(rows []model.DataInfo) {
	if len(rows) == 0 {
		return
	}
	cols := ui.NewColumns(3)
	for _, row := range rows {
		cols.AddRow(fmt.Sprintf("%d", row.Location.ID), row.StorageType, string(row.URI))
	}
	fmt.Print(cols.String())
}

func init() {
	queryDataCmd.Flags().Int64SliceVar(&queryLocationIDs, "location", nil, "Query by location id instead of annotations (repeatable)")
	queryCmd.AddCommand(queryDataCmd)
	queryCmd.AddCommand(queryLocationsCmd)
	queryCmd.AddCommand(queryTuplesCmd)
	queryCmd.AddCommand(queryGroupsCmd)
	rootCmd.AddCommand(queryCmd)
}
