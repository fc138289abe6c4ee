package process

import (
	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
)

// BuildMessages converts the resolved raw messages into renderable turns:
// noise is filtered, content is extracted, and citation/URL/file metadata is
// attached. Only the first qualifying user system message survives, and
// DALL-E tool output is re-attributed to the assistant.
//
// The position of each raw message in the resolved sequence is recorded as
// GraphIndex so the merger can verify true adjacency. Tool-derived messages
// carry no index; they were never part of an assistant run in the graph.
func (p *Processor) BuildMessages(messages []*export.Message, convID string, conv *export.Conversation) []document.Message {
	var processed []document.Message
	systemPromptAdded := false

	for i, msg := range messages {
		if msg == nil || p.ShouldFilter(msg) {
			continue
		}

		role := msg.Author.Role

		switch role {
		case "system":
			if systemPromptAdded || !p.IsUserSystemMessage(msg) {
				continue
			}
			content := p.ExtractContent(msg, convID)
			if content == "" {
				continue
			}
			processed = append(processed, document.Message{
				Role:       "system",
				Content:    content,
				Timestamp:  msg.CreateTime,
				GraphIndex: i,
			})
			systemPromptAdded = true

		case "user", "assistant":
			content := p.ExtractContent(msg, convID)
			if content == "" {
				continue
			}
			processed = append(processed, document.Message{
				Role:       role,
				Content:    content,
				Timestamp:  msg.CreateTime,
				Citations:  p.ExtractCitations(msg),
				WebURLs:    p.ExtractWebURLs(msg, conv),
				Files:      p.ExtractFileNames(msg),
				GraphIndex: i,
			})

		case "tool":
			// Already vetted by ShouldFilter: only DALL-E results get here.
			content := p.ExtractContent(msg, convID)
			if content == "" {
				continue
			}
			processed = append(processed, document.Message{
				Role:       "assistant",
				Content:    content,
				Timestamp:  msg.CreateTime,
				GraphIndex: -1,
			})
		}
	}

	return processed
}
