package cmds

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/chatsift/pkg/extractor"
	"github.com/go-go-golems/chatsift/pkg/render"
	"github.com/go-go-golems/chatsift/pkg/webfetch"
)

var FetchCmd = &cobra.Command{
	Use:   "fetch <url-or-html-file>...",
	Short: "Convert shared conversation pages to markdown",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		ctx := context.Background()
		for _, source := range args {
			conv, err := webfetch.Fetch(ctx, source)
			cobra.CheckErr(err)

			result := extractor.Convert(conv, nil, false)
			if result == nil {
				cobra.CheckErr(errors.Errorf("%s has no renderable messages", source))
			}

			var out []byte
			if asJSON {
				out, err = render.JSON(result.Doc)
				cobra.CheckErr(err)
			} else {
				md, err := render.Markdown(result.Meta, result.Messages)
				cobra.CheckErr(err)
				out = []byte(md)
			}

			if outputDir == "" {
				fmt.Println(string(out))
				continue
			}

			ext := ".md"
			if asJSON {
				ext = ".json"
			}
			path := extractor.OutputPath(outputDir, result.Meta.Title, ext)
			err = os.WriteFile(path, out, 0644)
			cobra.CheckErr(err)
			fmt.Printf("wrote %s\n", path)
		}
	},
}

func init() {
	FetchCmd.Flags().Bool("json", false, "Output the structured JSON document instead of markdown")
	FetchCmd.Flags().String("output-dir", "", "Write files there instead of stdout")
}
