package process

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// ExtractCitations reads the citation list out of message metadata, keeping
// only the fields that are present. Absent or malformed citation entries are
// skipped.
func (p *Processor) ExtractCitations(msg *export.Message) []document.Citation {
	if msg == nil {
		return nil
	}

	raw, ok := metadataValue(msg.Metadata, "citations").([]interface{})
	if !ok {
		return nil
	}

	var citations []document.Citation
	for _, entry := range raw {
		citation, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		var c document.Citation
		if meta, ok := citation["metadata"].(map[string]interface{}); ok {
			c.Title, _ = meta["title"].(string)
			c.URL, _ = meta["url"].(string)
			c.Type, _ = meta["type"].(string)
		}
		c.Quote, _ = citation["quote"].(string)

		if c != (document.Citation{}) {
			citations = append(citations, c)
		}
	}

	return citations
}

// ExtractWebURLs gathers every URL a message references: content-type
// specific URL and domain fields, citation metadata, regex matches inside
// string parts, and the conversation-level safe_urls list when conversation
// context is available. The result is deduplicated and sorted.
func (p *Processor) ExtractWebURLs(msg *export.Message, conv *export.Conversation) []string {
	if msg == nil {
		return nil
	}

	urls := map[string]struct{}{}
	add := func(u string) {
		if u != "" {
			urls[u] = struct{}{}
		}
	}

	if content := msg.Content; content != nil {
		switch content.ContentType {
		case "tether_quote":
			add(content.URL)
			if content.Domain != "" {
				add(fmt.Sprintf("https://%s", content.Domain))
			}

		case "tether_browsing_display":
			for _, match := range urlPattern.FindAllString(content.Result, -1) {
				add(match)
			}
			add(content.URL)

		case "sonic_webpage":
			add(content.URL)
			if content.Domain != "" {
				add(fmt.Sprintf("https://%s", content.Domain))
			}
		}

		for _, part := range content.Parts {
			if part == nil || !part.IsStr {
				continue
			}
			for _, match := range urlPattern.FindAllString(part.Str, -1) {
				add(match)
			}
		}
	}

	if raw, ok := metadataValue(msg.Metadata, "citations").([]interface{}); ok {
		for _, entry := range raw {
			citation, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if meta, ok := citation["metadata"].(map[string]interface{}); ok {
				if u, ok := meta["url"].(string); ok {
					add(u)
				}
			}
		}
	}

	if conv != nil {
		for _, u := range conv.SafeURLs {
			add(u)
		}
	}

	if len(urls) == 0 {
		return nil
	}

	out := make([]string, 0, len(urls))
	for u := range urls {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// ExtractFileNames collects uploaded file names from attachment metadata and
// from asset-pointer parts. Every level of the structure is optional.
func (p *Processor) ExtractFileNames(msg *export.Message) []string {
	if msg == nil {
		return nil
	}

	var files []string

	if attachments, ok := metadataValue(msg.Metadata, "attachments").([]interface{}); ok {
		for _, entry := range attachments {
			attachment, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if name, ok := attachment["name"].(string); ok && name != "" {
				files = append(files, name)
			}
		}
	}

	if msg.Content != nil {
		for _, part := range msg.Content.Parts {
			if part == nil || part.IsStr || part.AssetPointer == "" {
				continue
			}
			if part.Metadata == nil {
				continue
			}
			if name, ok := part.Metadata["file_name"].(string); ok && name != "" {
				files = append(files, name)
			}
		}
	}

	return files
}
