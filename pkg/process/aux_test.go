package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
)

func TestExtractCitations(t *testing.T) {
	p := NewProcessor(nil)
	msg := &export.Message{
		Metadata: map[string]interface{}{
			"citations": []interface{}{
				map[string]interface{}{
					"quote": "cited text",
					"metadata": map[string]interface{}{
						"title": "Source Title",
						"url":   "https://example.com",
						"type":  "webpage",
					},
				},
				map[string]interface{}{}, // empty entry is dropped
				"not a map",              // malformed entry is dropped
			},
		},
	}

	citations := p.ExtractCitations(msg)
	require.Len(t, citations, 1)
	assert.Equal(t, document.Citation{
		Title: "Source Title",
		URL:   "https://example.com",
		Type:  "webpage",
		Quote: "cited text",
	}, citations[0])
}

func TestExtractCitationsAbsent(t *testing.T) {
	p := NewProcessor(nil)
	assert.Nil(t, p.ExtractCitations(nil))
	assert.Nil(t, p.ExtractCitations(&export.Message{}))
	assert.Nil(t, p.ExtractCitations(&export.Message{Metadata: map[string]interface{}{"citations": "no"}}))
}

func TestExtractWebURLs(t *testing.T) {
	p := NewProcessor(nil)
	msg := &export.Message{
		Content: &export.Content{
			ContentType: "text",
			Parts: []*export.Part{
				{Str: "see https://a.example/doc and https://b.example", IsStr: true},
			},
		},
		Metadata: map[string]interface{}{
			"citations": []interface{}{
				map[string]interface{}{
					"metadata": map[string]interface{}{"url": "https://cited.example"},
				},
			},
		},
	}
	conv := &export.Conversation{SafeURLs: []string{"https://safe.example"}}

	urls := p.ExtractWebURLs(msg, conv)
	assert.Equal(t, []string{
		"https://a.example/doc",
		"https://b.example",
		"https://cited.example",
		"https://safe.example",
	}, urls)
}

func TestExtractWebURLsTetherQuote(t *testing.T) {
	p := NewProcessor(nil)
	msg := &export.Message{
		Content: &export.Content{
			ContentType: "tether_quote",
			URL:         "https://example.com/article",
			Domain:      "example.com",
		},
	}

	urls := p.ExtractWebURLs(msg, nil)
	assert.Equal(t, []string{"https://example.com", "https://example.com/article"}, urls)
}

func TestExtractWebURLsBrowsingDisplay(t *testing.T) {
	p := NewProcessor(nil)
	msg := &export.Message{
		Content: &export.Content{
			ContentType: "tether_browsing_display",
			Result:      "Found https://result.example/page in the search",
		},
	}

	urls := p.ExtractWebURLs(msg, nil)
	assert.Equal(t, []string{"https://result.example/page"}, urls)
}

func TestExtractWebURLsNone(t *testing.T) {
	p := NewProcessor(nil)
	assert.Nil(t, p.ExtractWebURLs(nil, nil))
	assert.Nil(t, p.ExtractWebURLs(textMsg("user", "no links here"), nil))
}

func TestExtractFileNames(t *testing.T) {
	p := NewProcessor(nil)
	msg := &export.Message{
		Metadata: map[string]interface{}{
			"attachments": []interface{}{
				map[string]interface{}{"name": "report.pdf"},
				map[string]interface{}{"id": "no-name"},
			},
		},
		Content: &export.Content{
			ContentType: "multimodal_text",
			Parts: []*export.Part{
				{
					ContentType:  "image_asset_pointer",
					AssetPointer: "file-service://file-xyz",
					Metadata:     map[string]interface{}{"file_name": "photo.png"},
				},
				{ContentType: "image_asset_pointer", AssetPointer: "file-service://file-bare"},
			},
		},
	}

	assert.Equal(t, []string{"report.pdf", "photo.png"}, p.ExtractFileNames(msg))
}

func TestExtractFileNamesAbsent(t *testing.T) {
	p := NewProcessor(nil)
	assert.Nil(t, p.ExtractFileNames(nil))
	assert.Nil(t, p.ExtractFileNames(textMsg("user", "hi")))
}
