package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/ui"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Attach annotations to locations and data",
}

var annotateLocationCmd = &cobra.Command{
	Use:   "location <dataset> <id> <key=value>...",
	Short: "Annotate an existing location",
	Long: `Attaches key=value annotations to a location. Annotating the same key
again with a different value adds a second value, it does not replace.

Examples:
  locus annotate location my-experiment 3 stain=dapi well=3`,
	Args: cobra.MinimumNArgs(3),
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
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("invalid location id %q", args[1]), "")
		}
		anns, err := parseAnnotations(args[2:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		loc := model.Location{Dataset: ds, ID: id}
		for key, value := range anns {
			if err := c.AnnotateLocation(loc, key, value); err != nil {
				return handleDomainError(err)
			}
		}

		if isJSONOutput() {
			outputSuccess(loc, &Meta{Count: len(anns)})
			return nil
		}
		fmt.Println(ui.Successf("Annotated location %d %s", id, ui.Count(len(anns), "key", "keys")))
		return nil
	},
}

var annotateDataCmd = &cobra.Command{
	Use:   "data <dataset> <uri> <key=value>...",
	Short: "Annotate an existing data entry",
	Args:  cobra.MinimumNArgs(3),
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
		info, err := c.GetData(ds, uriArg(args[1]))
		if err != nil {
			return handleDomainError(err)
		}
		anns, err := parseAnnotations(args[2:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		for key, value := range anns {
			if err := c.AnnotateData(info, key, value); err != nil {
				return handleDomainError(err)
			}
		}

		if isJSONOutput() {
			outputSuccess(info, &Meta{Count: len(anns)})
			return nil
		}
		fmt.Println(ui.Successf("Annotated %s %s", ui.DatasetName(string(info.URI)), ui.Count(len(anns), "key", "keys")))
		return nil
	},
}

func init() {
	annotateCmd.AddCommand(annotateLocationCmd)
	annotateCmd.AddCommand(annotateDataCmd)
	rootCmd.AddCommand(annotateCmd)
}
