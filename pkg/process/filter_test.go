package process

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-go-golems/chatsift/pkg/export"
)

func textMsg(role, text string) *export.Message {
	return &export.Message{
		Author: export.Author{Role: role},
		Content: &export.Content{
			ContentType: "text",
			Parts:       []*export.Part{{Str: text, IsStr: true}},
		},
	}
}

func TestShouldFilterNilMessage(t *testing.T) {
	p := NewProcessor(nil)
	assert.True(t, p.ShouldFilter(nil))
}

func TestShouldFilterVisuallyHidden(t *testing.T) {
	p := NewProcessor(nil)
	msg := textMsg("user", "hi")
	msg.Metadata = map[string]interface{}{"is_visually_hidden_from_conversation": true}
	assert.True(t, p.ShouldFilter(msg))
}

func TestShouldFilterInternalSystemMessage(t *testing.T) {
	p := NewProcessor(nil)
	assert.True(t, p.ShouldFilter(textMsg("system", "internal prompt")))
}

func TestShouldKeepUserSystemMessage(t *testing.T) {
	p := NewProcessor(nil)

	flagged := textMsg("system", "custom instructions")
	flagged.Metadata = map[string]interface{}{"is_user_system_message": true}
	assert.False(t, p.ShouldFilter(flagged))

	editable := &export.Message{
		Author:  export.Author{Role: "system"},
		Content: &export.Content{ContentType: "user_editable_context", Text: "context"},
	}
	assert.False(t, p.ShouldFilter(editable))
}

func TestShouldFilterToolMessages(t *testing.T) {
	p := NewProcessor(nil)

	assert.True(t, p.ShouldFilter(textMsg("tool", "browser output")))

	dalle := &export.Message{
		Author: export.Author{Role: "tool"},
		Content: &export.Content{
			ContentType: "multimodal_text",
			Parts: []*export.Part{{
				ContentType: "image_asset_pointer",
				Metadata:    map[string]interface{}{"dalle": map[string]interface{}{"prompt": "a dog"}},
			}},
		},
	}
	assert.False(t, p.ShouldFilter(dalle))
}

func TestShouldFilterUploadedImageToolMessage(t *testing.T) {
	p := NewProcessor(nil)

	// An image part without DALL-E metadata is an upload, not a generation.
	upload := &export.Message{
		Author: export.Author{Role: "tool"},
		Content: &export.Content{
			ContentType: "multimodal_text",
			Parts:       []*export.Part{{ContentType: "image_asset_pointer"}},
		},
	}
	assert.True(t, p.ShouldFilter(upload))
}

func TestShouldFilterExcludedContentTypes(t *testing.T) {
	p := NewProcessor(nil)
	for _, ct := range []string{"model_editable_context", "thoughts", "reasoning_recap"} {
		msg := &export.Message{
			Author:  export.Author{Role: "assistant"},
			Content: &export.Content{ContentType: ct, Text: "scratch"},
		}
		assert.True(t, p.ShouldFilter(msg), ct)
	}
}

func TestShouldFilterAbortedAssistantMessage(t *testing.T) {
	p := NewProcessor(nil)

	aborted := textMsg("assistant", "")
	assert.True(t, p.ShouldFilter(aborted))

	// An empty user message is kept here; it falls out later for lack of
	// content. Only assistant [""] marks an aborted generation.
	assert.False(t, p.ShouldFilter(textMsg("user", "")))
	assert.False(t, p.ShouldFilter(textMsg("assistant", "real content")))
}
