package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/chatsift/pkg/sample"
)

var SampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a synthetic conversations.json archive for testing",
	Run: func(cmd *cobra.Command, args []string) {
		count, _ := cmd.Flags().GetInt("count")
		complexity, _ := cmd.Flags().GetString("complexity")
		output, _ := cmd.Flags().GetString("output")
		seed, _ := cmd.Flags().GetInt64("seed")

		n, err := sample.WriteArchive(output, sample.Options{
			Count:      count,
			Complexity: sample.Complexity(complexity),
			Seed:       seed,
		})
		cobra.CheckErr(err)

		fmt.Printf("generated %d conversations in %s\n", n, output)
	},
}

func init() {
	SampleCmd.Flags().Int("count", 100, "Number of conversations to generate")
	SampleCmd.Flags().String("complexity", "simple", "Conversation shape (simple, complex, mixed)")
	SampleCmd.Flags().String("output", "sample_conversations.json", "Output filename")
	SampleCmd.Flags().Int64("seed", 0, "Random seed (0 = time-based)")
}
