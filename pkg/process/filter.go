package process

import "github.com/go-go-golems/chatsift/pkg/export"

// excludedContentTypes is internal model scratch content that was never meant
// for the user.
var excludedContentTypes = map[string]struct{}{
	"model_editable_context": {},
	"thoughts":               {},
	"reasoning_recap":        {},
}

// ShouldFilter reports whether a message is noise that must not appear in
// output. It is a pure predicate; rules are evaluated in order and the first
// match wins.
func (p *Processor) ShouldFilter(msg *export.Message) bool {
	if msg == nil {
		return true
	}

	if truthy(metadataValue(msg.Metadata, "is_visually_hidden_from_conversation")) {
		return true
	}

	role := msg.Author.Role

	// Internal system scaffolding is suppressed; user-authored custom
	// instructions are the one kind of system message worth keeping.
	if role == "system" && !p.IsUserSystemMessage(msg) {
		return true
	}

	// Tool output is noise except for DALL-E image generation results.
	if role == "tool" && !containsDalleImage(msg.Content) {
		return true
	}

	if msg.Content != nil {
		if _, excluded := excludedContentTypes[msg.Content.ContentType]; excluded {
			return true
		}

		// Aborted generations leave an assistant text message whose parts
		// are exactly [""].
		if role == "assistant" && msg.Content.ContentType == "text" &&
			len(msg.Content.Parts) == 1 &&
			msg.Content.Parts[0] != nil &&
			msg.Content.Parts[0].IsStr &&
			msg.Content.Parts[0].Str == "" {
			return true
		}
	}

	return false
}

// IsUserSystemMessage reports whether a system message carries user-authored
// custom instructions rather than internal scaffolding.
func (p *Processor) IsUserSystemMessage(msg *export.Message) bool {
	if msg == nil {
		return false
	}
	if truthy(metadataValue(msg.Metadata, "is_user_system_message")) {
		return true
	}
	return msg.Content != nil && msg.Content.ContentType == "user_editable_context"
}

// containsDalleImage reports whether multimodal content holds a
// DALL-E-generated image, identified by prompt metadata on an image part.
// Uploaded images carry no such metadata.
func containsDalleImage(content *export.Content) bool {
	if content == nil || content.ContentType != "multimodal_text" {
		return false
	}
	for _, part := range content.Parts {
		if part == nil || part.IsStr || part.ContentType != "image_asset_pointer" {
			continue
		}
		if part.Metadata == nil {
			continue
		}
		if _, ok := part.Metadata["dalle"]; ok {
			return true
		}
		if _, ok := part.Metadata["dalle_prompt"]; ok {
			return true
		}
	}
	return false
}
