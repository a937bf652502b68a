package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datalocus/locus/internal/catalog"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/ui"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage data entries in a dataset",
}

var (
	dataStorageType string
	dataLocationID  int64
	dataMetaPairs   []string
)

var dataCreateCmd = &cobra.Command{
	Use:   "create <dataset> <uri> [key=value]...",
	Short: "Register a data entry at a location",
	Long: `Registers a data entry under a URI. With --location the entry is placed
at an existing location, otherwise a fresh location is minted.

Fields given with --meta are written to a metadata document whose URI is
recorded with the entry.

Examples:
  locus data create my-experiment s3://bucket/img1 --type image --location 3 channel=0
  locus data create my-experiment file:///data/t.csv --type table --meta objective=40x`,
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
		anns, err := parseAnnotations(args[2:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		metadataURI, err := writeMetadataDoc(c, ds, dataMetaPairs)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		var info model.DataInfo
		if cmd.Flags().Changed("location") {
			loc := model.Location{Dataset: ds, ID: dataLocationID}
			info, err = c.CreateData(loc, uriArg(args[1]), dataStorageType, anns, metadataURI)
		} else {
			info, err = c.CreateDataInNewLocation(ds, uriArg(args[1]), dataStorageType, anns, metadataURI)
		}
		if err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		fmt.Println(ui.Successf("Registered %s at location %d", ui.DatasetName(string(info.URI)), info.Location.ID))
		return nil
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import <dataset> <file> [key=value]...",
	Short: "Copy a file into dataset storage and register it",
	Long: `Copies a local file into the dataset's payload store and registers the
stored copy as a data entry. The entry URI is minted by the store.

Examples:
  locus data import my-experiment ./mask.png --type label channel=1`,
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
		anns, err := parseAnnotations(args[2:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		payload, err := os.ReadFile(args[1])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		store, err := payloadStore(c, ds)
		if err != nil {
			return handleDomainError(err)
		}
		storedURI, err := store.Save(dataStorageType, payload)
		if err != nil {
			return handleDomainError(err)
		}

		metadataURI, err := writeMetadataDoc(c, ds, dataMetaPairs)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		var info model.DataInfo
		if cmd.Flags().Changed("location") {
			loc := model.Location{Dataset: ds, ID: dataLocationID}
			info, err = c.CreateData(loc, model.URI(storedURI), dataStorageType, anns, metadataURI)
		} else {
			info, err = c.CreateDataInNewLocation(ds, model.URI(storedURI), dataStorageType, anns, metadataURI)
		}
		if err != nil {
			// Orphaned payloads are cheap; remove anyway to keep the store tidy.
			_ = store.Delete(storedURI)
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		fmt.Println(ui.Successf("Imported %s as %s", filepath.Base(args[1]), ui.DatasetName(storedURI)))
		return nil
	},
}

var dataShowCmd = &cobra.Command{
	Use:   "show <dataset> <uri>",
	Short: "Show a data entry and its metadata document",
	Args:  cobra.ExactArgs(2),
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

		var doc map[string]interface{}
		if info.MetadataURI != "" {
			store, err := metadataStore(c, ds)
			if err != nil {
				return handleDomainError(err)
			}
			doc, err = store.Read(string(info.MetadataURI))
			if err != nil {
				return handleDomainError(err)
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"data":     info,
				"metadata": doc,
			}, nil)
			return nil
		}

		fmt.Println(ui.Header(string(info.URI)))
		fmt.Printf("%s  %d\n", ui.Muted.Render("Location:"), info.Location.ID)
		fmt.Printf("%s  %s\n", ui.Muted.Render("Type:    "), info.StorageType)
		for key, value := range doc {
			fmt.Printf("%s: %v\n", ui.Muted.Render(key), value)
		}
		return nil
	},
}

var dataDeleteCmd = &cobra.Command{
	Use:   "delete <dataset> <uri>",
	Short: "Delete a data entry and its annotations",
	Args:  cobra.ExactArgs(2),
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
		if err := c.DeleteData(info); err != nil {
			return handleDomainError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"deleted": info.URI}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Deleted %s", ui.DatasetName(string(info.URI))))
		return nil
	},
}

// writeMetadataDoc writes key=value pairs as a metadata document and returns
// its URI, or "" when no pairs were given.
func writeMetadataDoc(c *catalog.Catalog, ds model.Dataset, pairs []string) (model.URI, error) {
	if len(pairs) == 0 {
		return "", nil
	}
	fields, err := parseAnnotations(pairs)
	if err != nil {
		return "", err
	}
	doc := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		doc[key] = value.Text
	}
	store, err := metadataStore(c, ds)
	if err != nil {
		return "", err
	}
	uri, err := store.Create(doc)
	if err != nil {
		return "", err
	}
	return model.URI(uri), nil
}

func init() {
	for _, cmd := range []*cobra.Command{dataCreateCmd, dataImportCmd} {
		cmd.Flags().StringVar(&dataStorageType, "type", "", "Storage type (array, table, value, label, image)")
		cmd.Flags().Int64Var(&dataLocationID, "location", 0, "Existing location id (default: mint a new location)")
		cmd.Flags().StringArrayVar(&dataMetaPairs, "meta", nil, "Metadata document field (key=value, repeatable)")
		_ = cmd.MarkFlagRequired("type")
	}
	dataCmd.AddCommand(dataCreateCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataShowCmd)
	dataCmd.AddCommand(dataDeleteCmd)
	rootCmd.AddCommand(dataCmd)
}
