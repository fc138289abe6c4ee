package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/chatsift/pkg/export"
)

func TestBuildMessagesRolesAndIndices(t *testing.T) {
	p := NewProcessor(nil)

	system := textMsg("system", "be helpful")
	system.Metadata = map[string]interface{}{"is_user_system_message": true}

	dalle := &export.Message{
		Author: export.Author{Role: "tool"},
		Content: &export.Content{
			ContentType: "multimodal_text",
			Parts: []*export.Part{{
				ContentType: "image_asset_pointer",
				Metadata:    map[string]interface{}{"dalle": map[string]interface{}{"prompt": "a fox"}},
			}},
		},
	}

	raw := []*export.Message{
		system,
		textMsg("user", "draw a fox"),
		dalle,
		textMsg("assistant", "here it is"),
		textMsg("unknown_role", "dropped"),
	}

	messages := p.BuildMessages(raw, "conv", nil)
	require.Len(t, messages, 4)

	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, 0, messages[0].GraphIndex)

	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, 1, messages[1].GraphIndex)

	// DALL-E tool output is re-attributed to the assistant without an index.
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "[DALL-E Image: a fox]", messages[2].Content)
	assert.Equal(t, -1, messages[2].GraphIndex)

	assert.Equal(t, "assistant", messages[3].Role)
	assert.Equal(t, 3, messages[3].GraphIndex)
}

func TestBuildMessagesOnlyFirstSystemPrompt(t *testing.T) {
	p := NewProcessor(nil)

	first := textMsg("system", "instructions one")
	first.Metadata = map[string]interface{}{"is_user_system_message": true}
	second := textMsg("system", "instructions two")
	second.Metadata = map[string]interface{}{"is_user_system_message": true}

	messages := p.BuildMessages([]*export.Message{first, second}, "conv", nil)
	require.Len(t, messages, 1)
	assert.Equal(t, "instructions one", messages[0].Content)
}

func TestBuildMessagesDropsEmptyContent(t *testing.T) {
	p := NewProcessor(nil)
	messages := p.BuildMessages([]*export.Message{textMsg("user", "")}, "conv", nil)
	assert.Empty(t, messages)
}
