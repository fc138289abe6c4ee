package export

import "encoding/json"

// Conversation is one element of the conversations.json export array. Only the
// fields the pipeline consumes are decoded; everything else is ignored.
type Conversation struct {
	ID                     string           `json:"id"`
	ConversationID         string           `json:"conversation_id"`
	Title                  string           `json:"title"`
	CreateTime             *float64         `json:"create_time"`
	UpdateTime             *float64         `json:"update_time"`
	DefaultModelSlug       string           `json:"default_model_slug"`
	IsStarred              bool             `json:"is_starred"`
	IsArchived             bool             `json:"is_archived"`
	ConversationTemplateID string           `json:"conversation_template_id"`
	Mapping                map[string]*Node `json:"mapping"`
	CurrentNode            string           `json:"current_node"`
	SafeURLs               []string         `json:"safe_urls"`
}

// Key returns the conversation identifier, falling back from id to
// conversation_id to "unknown". Older exports only carry conversation_id.
func (c *Conversation) Key() string {
	if c == nil {
		return "unknown"
	}
	if c.ID != "" {
		return c.ID
	}
	if c.ConversationID != "" {
		return c.ConversationID
	}
	return "unknown"
}

// Node is a single entry in the conversation mapping. The root node usually
// has no message, and edited/regenerated branches show up as siblings in
// Children.
type Node struct {
	ID       string   `json:"id"`
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
	Message  *Message `json:"message"`
}

type Author struct {
	Role      string                 `json:"role"`
	Name      string                 `json:"name"`
	Recipient string                 `json:"recipient"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type FinishDetails struct {
	Type string `json:"type"`
}

type Message struct {
	ID            string                 `json:"id"`
	Author        Author                 `json:"author"`
	CreateTime    *float64               `json:"create_time"`
	UpdateTime    *float64               `json:"update_time"`
	Content       *Content               `json:"content"`
	Status        string                 `json:"status"`
	Weight        float64                `json:"weight"`
	Metadata      map[string]interface{} `json:"metadata"`
	Recipient     string                 `json:"recipient"`
	FinishDetails *FinishDetails         `json:"finish_details"`
}

// Content is the loosely typed content union, keyed by ContentType. Known
// content types each use a subset of the fields; unknown types are handled by
// best-effort extraction from Text and Parts. Fields not used by a given type
// simply stay zero.
type Content struct {
	ContentType string  `json:"content_type"`
	Parts       []*Part `json:"parts"`
	Text        string  `json:"text"`
	Language    string  `json:"language"`
	Result      string  `json:"result"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Domain      string  `json:"domain"`
	Name        string  `json:"name"`
}

// Part is one element of a parts list. The export mixes bare strings, typed
// objects, and outright nulls in the same array; a null element decodes to a
// nil *Part in the slice.
type Part struct {
	// Str holds the text of a bare string part; IsStr distinguishes the
	// empty string from an object part.
	Str   string
	IsStr bool

	ContentType  string                 `json:"content_type"`
	Text         string                 `json:"text"`
	Output       string                 `json:"output"`
	AssetPointer string                 `json:"asset_pointer"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// partAlias carries the object encoding of a part. The marshal side omits
// zero-value fields so re-emitted parts look like the originals, which never
// carry empty asset pointers or null metadata.
type partAlias struct {
	ContentType  string                 `json:"content_type,omitempty"`
	Text         string                 `json:"text,omitempty"`
	Output       string                 `json:"output,omitempty"`
	AssetPointer string                 `json:"asset_pointer,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// UnmarshalJSON accepts both the string and object encodings of a part.
// Anything else (numbers, arrays) is swallowed as an empty part rather than
// failing the conversation.
func (p *Part) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Str = s
		p.IsStr = true
		return nil
	}

	var pa partAlias
	if err := json.Unmarshal(data, &pa); err != nil {
		return nil
	}
	p.ContentType = pa.ContentType
	p.Text = pa.Text
	p.Output = pa.Output
	p.AssetPointer = pa.AssetPointer
	p.Metadata = pa.Metadata
	return nil
}

func (p *Part) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if p.IsStr {
		return json.Marshal(p.Str)
	}
	return json.Marshal(partAlias{
		ContentType:  p.ContentType,
		Text:         p.Text,
		Output:       p.Output,
		AssetPointer: p.AssetPointer,
		Metadata:     p.Metadata,
	})
}
