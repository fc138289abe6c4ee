package export

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoadArchive reads a conversations.json export and returns the raw
// per-conversation payloads. Conversations are kept as raw JSON so that a
// malformed conversation fails on its own during DecodeConversation instead
// of taking down the whole archive.
//
// A missing file or invalid top-level JSON is fatal to the run.
func LoadArchive(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read archive %s", path)
	}

	var conversations []json.RawMessage
	if err := json.Unmarshal(data, &conversations); err != nil {
		return nil, errors.Wrapf(err, "invalid JSON in archive %s", path)
	}

	log.Debug().Str("path", path).Int("conversations", len(conversations)).
		Msg("loaded conversation archive")

	return conversations, nil
}

// DecodeConversation decodes one element of the archive array. Type
// mismatches (a list where a string was expected and so on) surface here and
// are handled per conversation by the batch driver.
func DecodeConversation(raw json.RawMessage) (*Conversation, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty conversation payload")
	}

	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, errors.Wrap(err, "could not decode conversation")
	}

	return &conv, nil
}

// PeekIdentity pulls id and title out of a raw conversation without decoding
// the full structure, for failure reporting when DecodeConversation itself is
// what failed.
func PeekIdentity(raw json.RawMessage) (id string, title string) {
	var peek struct {
		ID             string `json:"id"`
		ConversationID string `json:"conversation_id"`
		Title          string `json:"title"`
	}
	_ = json.Unmarshal(raw, &peek)

	id = peek.ID
	if id == "" {
		id = peek.ConversationID
	}
	if id == "" {
		id = "unknown"
	}
	title = peek.Title
	if title == "" {
		title = "Untitled"
	}
	return id, title
}
