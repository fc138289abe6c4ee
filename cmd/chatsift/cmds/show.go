package cmds

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/go-go-golems/chatsift/pkg/extractor"
	"github.com/go-go-golems/chatsift/pkg/render"
)

var ShowCmd = &cobra.Command{
	Use:   "show [conversations.json] [id-or-index]",
	Short: "Render a single conversation from an archive to the terminal",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		raws, err := export.LoadArchive(args[0])
		cobra.CheckErr(err)

		conv, err := findConversation(raws, args[1])
		cobra.CheckErr(err)

		result := extractor.Convert(conv, nil, false)
		if result == nil {
			cobra.CheckErr(errors.Errorf("conversation %s has no renderable messages", conv.Key()))
		}

		md, err := render.Markdown(result.Meta, result.Messages)
		cobra.CheckErr(err)

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			fmt.Println(md)
			return
		}

		out, err := glamour.Render(md, "dark")
		cobra.CheckErr(err)
		fmt.Println(out)
	},
}

// findConversation treats the selector as a zero-based index when it parses
// as an integer, otherwise as a conversation id or exact title.
func findConversation(raws []json.RawMessage, selector string) (*export.Conversation, error) {
	if idx, err := strconv.Atoi(selector); err == nil {
		if idx < 0 || idx >= len(raws) {
			return nil, errors.Errorf("index %d out of range, archive has %d conversations", idx, len(raws))
		}
		return export.DecodeConversation(raws[idx])
	}

	for _, raw := range raws {
		id, title := export.PeekIdentity(raw)
		if id != selector && title != selector {
			continue
		}
		return export.DecodeConversation(raw)
	}
	return nil, errors.Errorf("no conversation with id or title %q", selector)
}

func init() {
	ShowCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering with glamour")
}
