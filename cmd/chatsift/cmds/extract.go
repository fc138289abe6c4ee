package cmds

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/chatsift/pkg/extractor"
)

var ExtractCmd = &cobra.Command{
	Use:   "extract [conversations.json]",
	Short: "Convert an export archive to per-conversation markdown and JSON files",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := "conversations.json"
		if len(args) > 0 {
			input = args[0]
		}

		format, _ := cmd.Flags().GetString("format")
		jsonMode, _ := cmd.Flags().GetString("json-mode")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		markdownDir, _ := cmd.Flags().GetString("markdown-dir")
		jsonDir, _ := cmd.Flags().GetString("json-dir")
		jsonFile, _ := cmd.Flags().GetString("json-file")
		preserveTimestamps, _ := cmd.Flags().GetBool("preserve-timestamps")
		countTokens, _ := cmd.Flags().GetBool("count-tokens")
		workers, _ := cmd.Flags().GetInt("workers")

		e, err := extractor.New(extractor.Options{
			InputFile:          input,
			OutputDir:          outputDir,
			Format:             extractor.OutputFormat(format),
			JSONMode:           extractor.JSONMode(jsonMode),
			MarkdownDir:        markdownDir,
			JSONDir:            jsonDir,
			JSONFile:           jsonFile,
			PreserveTimestamps: preserveTimestamps,
			CountTokens:        countTokens,
			Workers:            workers,
		})
		cobra.CheckErr(err)

		err = e.Run(context.Background())
		cobra.CheckErr(err)
	},
}

func init() {
	ExtractCmd.Flags().String("output-dir", "output", "Directory for converted conversations")
	ExtractCmd.Flags().String("format", "markdown", "Output format (markdown, json, both)")
	ExtractCmd.Flags().String("json-mode", "single", "JSON layout (single consolidated file, multiple per-conversation files)")
	ExtractCmd.Flags().String("markdown-dir", "", "Override for the markdown output directory")
	ExtractCmd.Flags().String("json-dir", "", "Override for the per-conversation JSON output directory")
	ExtractCmd.Flags().String("json-file", "", "Override for the consolidated JSON file path")
	ExtractCmd.Flags().Bool("preserve-timestamps", true, "Set output file mtimes to the conversation update time")
	ExtractCmd.Flags().Bool("count-tokens", false, "Count tokens per conversation with the cl100k tokenizer")
	ExtractCmd.Flags().Int("workers", 0, "Number of concurrent workers (0 = one per CPU)")
}
