package process

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/chatsift/pkg/export"
)

const (
	aboutUserWrapper  = "The user provided the following information about themselves:"
	aboutModelWrapper = "The user provided the additional info about how they would like you to respond:"
)

// ExtractContent produces the renderable text for one message, dispatching on
// the content type. Unknown content types fall back to best-effort extraction
// from the text and parts fields. An empty return value means the message has
// nothing to render.
//
// This never fails: nil content, nil parts and null part elements all degrade
// to empty output.
func (p *Processor) ExtractContent(msg *export.Message, convID string) string {
	if msg == nil || msg.Content == nil {
		return ""
	}
	content := msg.Content

	if content.ContentType != "" {
		p.trackContentType(content.ContentType, convID)
	}

	switch content.ContentType {
	case "text", "multimodal_text":
		return p.extractFromParts(content.Parts, convID)

	case "code":
		if content.Text == "" {
			return ""
		}
		return fmt.Sprintf("```%s\n%s\n```", content.Language, content.Text)

	case "execution_output":
		if content.Text == "" {
			return ""
		}
		return fmt.Sprintf("```output\n%s\n```", content.Text)

	case "user_editable_context":
		return extractCustomInstructionsText(content.Text)

	case "tether_browsing_display":
		return content.Result

	case "tether_quote":
		var parts []string
		if content.Title != "" {
			parts = append(parts, fmt.Sprintf("**%s**", content.Title))
		}
		if content.Text != "" {
			parts = append(parts, fmt.Sprintf("> %s", content.Text))
		}
		if content.URL != "" {
			parts = append(parts, fmt.Sprintf("Source: %s", content.URL))
		}
		return strings.Join(parts, "\n")

	case "sonic_webpage":
		if content.Text == "" {
			return ""
		}
		if content.URL != "" {
			return fmt.Sprintf("[Web Content from %s]\n%s", content.URL, content.Text)
		}
		return content.Text

	case "system_error":
		name := content.Name
		if name == "" {
			name = "Error"
		}
		return fmt.Sprintf("[System Error: %s]\n%s", name, content.Text)

	case "":
		return ""

	default:
		// Unknown content type: best-effort extraction.
		if content.Text != "" {
			return content.Text
		}
		return p.extractFromParts(content.Parts, convID)
	}
}

// extractCustomInstructionsText strips the fixed wrapper sentences OpenAI
// injects around user custom instructions. Everything after the first wrapper
// line survives; if that leaves nothing or nearly everything (the wrapper was
// absent or phrased differently), naive substring removal of the two known
// wrappers is used instead.
func extractCustomInstructionsText(text string) string {
	if text == "" {
		return ""
	}

	var kept []string
	inInstructions := false
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "The user provided the following information") {
			inInstructions = true
		} else if inInstructions {
			kept = append(kept, line)
		}
	}
	result := strings.TrimSpace(strings.Join(kept, "\n"))

	if result == "" || float64(len(result)) > float64(len(text))*0.9 {
		result = text
		result = strings.ReplaceAll(result, aboutUserWrapper, "")
		result = strings.ReplaceAll(result, aboutModelWrapper, "")
		result = strings.TrimSpace(result)
	}

	return result
}

// extractFromParts flattens a parts list into text. Null elements are
// skipped; collected fragments are joined with a blank line.
func (p *Processor) extractFromParts(parts []*export.Part, convID string) string {
	if len(parts) == 0 {
		return ""
	}

	var fragments []string

	for _, part := range parts {
		if part == nil {
			continue
		}

		if part.IsStr {
			if part.Str != "" {
				fragments = append(fragments, part.Str)
			}
			continue
		}

		if part.ContentType != "" {
			p.trackPartType(part.ContentType, convID)
		}

		switch part.ContentType {
		case "image_asset_pointer":
			fragments = append(fragments, imageMarker(part.Metadata))

		case "audio_transcription":
			if part.Text != "" {
				fragments = append(fragments, fmt.Sprintf("[Audio transcription]\n%s", part.Text))
			}

		case "audio_asset_pointer":
			fragments = append(fragments, "[Audio file]")

		case "video_asset_pointer":
			fragments = append(fragments, "[Video file]")

		case "real_time_user_audio_video_asset_pointer":
			fragments = append(fragments, "[Voice conversation with video]")

		case "code_interpreter_output":
			if part.Output != "" {
				fragments = append(fragments, fmt.Sprintf("```output\n%s\n```", part.Output))
			}

		default:
			if part.Text != "" {
				fragments = append(fragments, part.Text)
			}
		}
	}

	return strings.Join(fragments, "\n\n")
}

// imageMarker renders an image part. DALL-E images carry their prompt in
// metadata under either dalle.prompt or the flat dalle_prompt key; everything
// else is a plain [Image].
func imageMarker(metadata map[string]interface{}) string {
	if metadata == nil {
		return "[Image]"
	}

	if dalle, ok := metadata["dalle"].(map[string]interface{}); ok {
		if prompt, ok := dalle["prompt"].(string); ok && prompt != "" {
			return fmt.Sprintf("[DALL-E Image: %s]", prompt)
		}
		return "[Image]"
	}

	if prompt, ok := metadata["dalle_prompt"].(string); ok && prompt != "" {
		return fmt.Sprintf("[DALL-E Image: %s]", prompt)
	}

	return "[Image]"
}
