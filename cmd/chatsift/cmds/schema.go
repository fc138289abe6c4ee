package cmds

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/chatsift/pkg/document"
)

var SchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the output document format",
	Run: func(cmd *cobra.Command, args []string) {
		consolidated, _ := cmd.Flags().GetBool("consolidated")

		reflector := &jsonschema.Reflector{}
		var schema *jsonschema.Schema
		if consolidated {
			schema = reflector.Reflect(&document.ConsolidatedExport{})
		} else {
			schema = reflector.Reflect(&document.Document{})
		}

		data, err := json.MarshalIndent(schema, "", "  ")
		cobra.CheckErr(err)
		fmt.Println(string(data))
	},
}

func init() {
	SchemaCmd.Flags().Bool("consolidated", false, "Describe the consolidated export instead of a single document")
}
