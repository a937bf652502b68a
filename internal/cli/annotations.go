package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/ui"
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations",
	Short: "List annotation keys and their observed values",
}

var annotationsLocationsCmd = &cobra.Command{
	Use:   "locations <dataset>",
	Short: "List location annotation keys and values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotationValues(args[0], true)
	},
}

var annotationsDataCmd = &cobra.Command{
	Use:   "data <dataset>",
	Short: "List data annotation keys and values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotationValues(args[0], false)
	},
}

func runAnnotationValues(dataset string, locationSide bool) error {
	c, err := openCatalog()
	if err != nil {
		return handleError(ErrWorkspaceNotFound, err, "")
	}
	defer c.Close()

	ds, err := resolveDataset(c, dataset)
	if err != nil {
		return handleDomainError(err)
	}

	var values map[string][]string
	if locationSide {
		values, err = c.LocationAnnotationValues(ds)
	} else {
		values, err = c.DataAnnotationValues(ds)
	}
	if err != nil {
		return handleDomainError(err)
	}

	if isJSONOutput() {
		outputSuccess(values, &Meta{Count: len(values)})
		return nil
	}

	if len(values) == 0 {
		fmt.Println("No annotations yet.")
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cols := ui.NewColumns(2)
	for _, key := range keys {
		cols.AddRow(key, strings.Join(values[key], ", "))
	}
	fmt.Print(cols.String())
	return nil
}

func init() {
	annotationsCmd.AddCommand(annotationsLocationsCmd)
	annotationsCmd.AddCommand(annotationsDataCmd)
	rootCmd.AddCommand(annotationsCmd)
}
