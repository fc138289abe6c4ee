package extractor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/go-go-golems/chatsift/pkg/tracker"
)

const simpleArchive = `[
  {
    "id": "conv-hello",
    "title": "Hello Chat",
    "create_time": 1710505845,
    "update_time": 1710509445,
    "default_model_slug": "gpt-4",
    "current_node": "n2",
    "mapping": {
      "root": {"id": "root", "children": ["n1"], "message": null},
      "n1": {
        "id": "n1", "parent": "root", "children": ["n2"],
        "message": {
          "id": "n1", "author": {"role": "user"},
          "content": {"content_type": "text", "parts": ["Hello"]},
          "weight": 1
        }
      },
      "n2": {
        "id": "n2", "parent": "n1", "children": [],
        "message": {
          "id": "n2", "author": {"role": "assistant"},
          "content": {"content_type": "text", "parts": ["Hi"]},
          "weight": 1
        }
      }
    }
  },
  {
    "id": "conv-broken",
    "title": "Broken Chat",
    "mapping": []
  }
]`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeConv(t *testing.T, data string) *export.Conversation {
	t.Helper()
	conv, err := export.DecodeConversation(json.RawMessage(data))
	require.NoError(t, err)
	return conv
}

func TestConvertRoundTrip(t *testing.T) {
	var archive []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(simpleArchive), &archive))
	conv := decodeConv(t, string(archive[0]))

	result := Convert(conv, tracker.NewSchema(), false)
	require.NotNil(t, result)

	assert.Equal(t, "conv-hello", result.Meta.ID)
	assert.Equal(t, "Hello Chat", result.Meta.Title)
	assert.Equal(t, "gpt-4", result.Meta.Model)
	assert.Equal(t, 2, result.Meta.TotalMessages)
	assert.Equal(t, []string{"text"}, result.Meta.MessageTypes)

	require.Len(t, result.Messages, 2)
	assert.Equal(t, document.Message{Role: "user", Content: "Hello", GraphIndex: 0}, result.Messages[0])
	assert.Equal(t, "assistant", result.Messages[1].Role)
	assert.Equal(t, "Hi", result.Messages[1].Content)
}

func TestConvertEmptyConversation(t *testing.T) {
	conv := &export.Conversation{ID: "empty", Mapping: map[string]*export.Node{}}
	assert.Nil(t, Convert(conv, nil, false))
}

func TestRunMarkdownAndFailureLog(t *testing.T) {
	input := writeInput(t, simpleArchive)
	outDir := t.TempDir()

	e, err := New(Options{
		InputFile: input,
		OutputDir: outDir,
		Format:    FormatMarkdown,
		Workers:   2,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	md, err := os.ReadFile(filepath.Join(outDir, "md", "Hello Chat.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Hello Chat")
	assert.Contains(t, string(md), "## User")
	assert.Contains(t, string(md), "Hello")
	assert.Contains(t, string(md), "## Assistant")

	// The broken conversation lands in the failure log, not in output.
	logData, err := os.ReadFile(filepath.Join(outDir, "conversion_log.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "conv-broken")

	schemaReport, err := os.ReadFile(filepath.Join(outDir, "schema_evolution.log"))
	require.NoError(t, err)
	assert.Contains(t, string(schemaReport), "SCHEMA EVOLUTION TRACKING REPORT")
}

func TestRunConsolidatedJSON(t *testing.T) {
	input := writeInput(t, simpleArchive)
	outDir := t.TempDir()
	jsonFile := filepath.Join(outDir, "all.json")

	e, err := New(Options{
		InputFile: input,
		OutputDir: outDir,
		Format:    FormatJSON,
		JSONMode:  JSONModeSingle,
		JSONFile:  jsonFile,
		Workers:   1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)

	var consolidated document.ConsolidatedExport
	require.NoError(t, json.Unmarshal(data, &consolidated))
	assert.Equal(t, 1, consolidated.ExportMetadata.TotalConversations)
	assert.Equal(t, 1, consolidated.ExportMetadata.FailedConversations)
	assert.Equal(t, Version, consolidated.ExportMetadata.ExtractorVersion)
	require.Len(t, consolidated.Conversations, 1)
	assert.Equal(t, "conv-hello", consolidated.Conversations[0].ID)
	require.Len(t, consolidated.Conversations[0].Messages, 2)
}

func TestRunPerConversationJSON(t *testing.T) {
	input := writeInput(t, simpleArchive)
	outDir := t.TempDir()

	e, err := New(Options{
		InputFile: input,
		OutputDir: outDir,
		Format:    FormatJSON,
		JSONMode:  JSONModeMultiple,
		Workers:   1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(outDir, "json", "Hello Chat.json"))
	require.NoError(t, err)

	var doc document.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "conv-hello", doc.ID)
}

func TestRunProjectSubfolders(t *testing.T) {
	archive := strings.Replace(simpleArchive,
		`"default_model_slug": "gpt-4",`,
		`"default_model_slug": "gpt-4", "conversation_template_id": "g-p-myproject",`, 1)
	input := writeInput(t, archive)
	outDir := t.TempDir()

	e, err := New(Options{
		InputFile: input,
		OutputDir: outDir,
		Format:    FormatMarkdown,
		Workers:   1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	_, err = os.Stat(filepath.Join(outDir, "md", "g-p-myproject", "Hello Chat.md"))
	assert.NoError(t, err)
}

func TestRunTitleCollisions(t *testing.T) {
	collision := `[` + firstConversation(t) + `,` + firstConversation(t) + `]`
	input := writeInput(t, collision)
	outDir := t.TempDir()

	e, err := New(Options{
		InputFile: input,
		OutputDir: outDir,
		Format:    FormatMarkdown,
		Workers:   1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	_, err = os.Stat(filepath.Join(outDir, "md", "Hello Chat.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "md", "Hello Chat (2).md"))
	assert.NoError(t, err)
}

func firstConversation(t *testing.T) string {
	t.Helper()
	var archive []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(simpleArchive), &archive))
	return string(archive[0])
}

func TestRunPreserveTimestamps(t *testing.T) {
	input := writeInput(t, simpleArchive)
	outDir := t.TempDir()

	e, err := New(Options{
		InputFile:          input,
		OutputDir:          outDir,
		Format:             FormatMarkdown,
		PreserveTimestamps: true,
		Workers:            1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))

	info, err := os.Stat(filepath.Join(outDir, "md", "Hello Chat.md"))
	require.NoError(t, err)
	// update_time is 1710509445 (2024-03-15T13:30:45Z).
	assert.Equal(t, int64(1710509445), info.ModTime().Unix())
}
