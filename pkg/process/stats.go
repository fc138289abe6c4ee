package process

import (
	"sort"
	"strings"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
)

// Statistics summarizes a conversation's raw resolved messages before
// filtering, feeding the metadata block.
type Statistics struct {
	CodeCount          int
	ContentTypes       map[string]struct{}
	CustomInstructions *document.CustomInstructions
}

// SortedContentTypes returns the distinct content types seen, sorted.
func (s Statistics) SortedContentTypes() []string {
	if len(s.ContentTypes) == 0 {
		return nil
	}
	types := make([]string, 0, len(s.ContentTypes))
	for t := range s.ContentTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CollectStatistics walks the raw message list counting code-bearing messages
// and distinct content types, and extracts custom instructions from the first
// user_editable_context message. The newer structured metadata location wins
// over legacy wrapper-text parsing.
func CollectStatistics(messages []*export.Message, convID string) Statistics {
	stats := Statistics{ContentTypes: map[string]struct{}{}}

	for _, msg := range messages {
		if msg == nil || msg.Content == nil {
			continue
		}
		content := msg.Content
		contentType := content.ContentType
		if contentType == "" {
			continue
		}
		stats.ContentTypes[contentType] = struct{}{}

		switch contentType {
		case "code", "execution_output":
			stats.CodeCount++
		case "multimodal_text":
			for _, part := range content.Parts {
				if part != nil && !part.IsStr && part.ContentType == "code_interpreter_output" {
					stats.CodeCount++
					break
				}
			}
		}

		if contentType == "user_editable_context" && stats.CustomInstructions.IsEmpty() {
			stats.CustomInstructions = extractCustomInstructions(msg)
		}
	}

	return stats
}

// extractCustomInstructions reads custom instructions from a
// user_editable_context message. Newer exports store them structured under
// metadata.user_context_message_data; older exports wrap them in fixed
// sentences inside content.text.
func extractCustomInstructions(msg *export.Message) *document.CustomInstructions {
	if data, ok := metadataValue(msg.Metadata, "user_context_message_data").(map[string]interface{}); ok {
		ci := &document.CustomInstructions{}
		ci.AboutUser, _ = data["about_user_message"].(string)
		ci.AboutModel, _ = data["about_model_message"].(string)
		if !ci.IsEmpty() {
			return ci
		}
	}

	text := ""
	if msg.Content != nil {
		text = msg.Content.Text
	}
	if text == "" || !strings.Contains(text, aboutUserWrapper) {
		return nil
	}

	ci := &document.CustomInstructions{}
	if idx := strings.Index(text, aboutModelWrapper); idx >= 0 {
		ci.AboutUser = strings.TrimSpace(strings.ReplaceAll(text[:idx], aboutUserWrapper, ""))
		ci.AboutModel = strings.TrimSpace(text[idx+len(aboutModelWrapper):])
	} else {
		ci.AboutUser = strings.TrimSpace(strings.ReplaceAll(text, aboutUserWrapper, ""))
	}

	if ci.IsEmpty() {
		return nil
	}
	return ci
}
