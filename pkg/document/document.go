// Package document holds the processed, serialization-ready representation of
// a conversation: the flattened message list and the metadata block shared by
// the Markdown and JSON renderers.
package document

import (
	"fmt"
	"time"
)

// Citation is one entry of a message's citation list, with only the fields
// that were actually present in the export.
type Citation struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Quote string `json:"quote,omitempty" yaml:"quote,omitempty"`
}

// Message is a single rendered conversation turn.
//
// GraphIndex records the message's position in the resolved chronological
// sequence. It exists solely so the continuation merger can tell true graph
// neighbors from messages that only became adjacent after filtering; it never
// appears in output. A value of -1 means "unknown" (synthetic messages such
// as re-attributed tool output).
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *float64   `json:"timestamp,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	WebURLs   []string   `json:"web_urls,omitempty"`
	Files     []string   `json:"files,omitempty"`

	GraphIndex int `json:"-"`
}

// CustomInstructions is the user-authored persistent context attached to a
// conversation, either from the structured metadata location or parsed out of
// a legacy wrapper-text system message.
type CustomInstructions struct {
	AboutUser  string `json:"about_user_message,omitempty" yaml:"about_user_message,omitempty"`
	AboutModel string `json:"about_model_message,omitempty" yaml:"about_model_message,omitempty"`
}

func (ci *CustomInstructions) IsEmpty() bool {
	return ci == nil || (ci.AboutUser == "" && ci.AboutModel == "")
}

// Metadata is the per-conversation metadata block. It is built once through
// MetadataBuilder and treated as immutable afterwards.
type Metadata struct {
	ID                 string              `json:"id" yaml:"id"`
	Title              string              `json:"title" yaml:"title"`
	Created            string              `json:"created,omitempty" yaml:"created,omitempty"`
	Updated            string              `json:"updated,omitempty" yaml:"updated,omitempty"`
	Model              string              `json:"model,omitempty" yaml:"model,omitempty"`
	Starred            bool                `json:"starred,omitempty" yaml:"starred,omitempty"`
	Archived           bool                `json:"archived,omitempty" yaml:"archived,omitempty"`
	ChatURL            string              `json:"chat_url" yaml:"chat_url"`
	ProjectID          string              `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	TotalMessages      int                 `json:"total_messages" yaml:"total_messages"`
	CodeMessages       int                 `json:"code_messages" yaml:"code_messages"`
	MessageTypes       []string            `json:"message_types,omitempty" yaml:"message_types,omitempty"`
	TokenCount         int                 `json:"token_count,omitempty" yaml:"token_count,omitempty"`
	CustomInstructions *CustomInstructions `json:"custom_instructions,omitempty" yaml:"custom_instructions,omitempty"`
}

// MetadataBuilder collects the optional metadata fields incrementally and
// produces the final immutable Metadata value. This avoids the
// half-initialized map the incremental construction would otherwise leave
// visible during processing.
type MetadataBuilder struct {
	m Metadata
}

func NewMetadataBuilder(id, title string) *MetadataBuilder {
	if title == "" {
		title = "Untitled Conversation"
	}
	return &MetadataBuilder{
		m: Metadata{
			ID:      id,
			Title:   title,
			ChatURL: fmt.Sprintf("https://chatgpt.com/c/%s", id),
		},
	}
}

// formatTimestamp renders a Unix seconds timestamp the way the exports do
// elsewhere: ISO 8601 with a Z suffix.
func formatTimestamp(ts float64) string {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC().Format("2006-01-02T15:04:05") + "Z"
}

func (b *MetadataBuilder) Created(ts *float64) *MetadataBuilder {
	if ts != nil && *ts != 0 {
		b.m.Created = formatTimestamp(*ts)
	}
	return b
}

func (b *MetadataBuilder) Updated(ts *float64) *MetadataBuilder {
	if ts != nil && *ts != 0 {
		b.m.Updated = formatTimestamp(*ts)
	}
	return b
}

func (b *MetadataBuilder) Model(slug string) *MetadataBuilder {
	b.m.Model = slug
	return b
}

func (b *MetadataBuilder) Starred(v bool) *MetadataBuilder {
	b.m.Starred = v
	return b
}

func (b *MetadataBuilder) Archived(v bool) *MetadataBuilder {
	b.m.Archived = v
	return b
}

// ProjectID records the conversation's project when the template id carries
// the g-p- project prefix; other template ids (custom GPTs) are ignored.
func (b *MetadataBuilder) ProjectID(templateID string) *MetadataBuilder {
	if len(templateID) >= 4 && templateID[:4] == "g-p-" {
		b.m.ProjectID = templateID
	}
	return b
}

func (b *MetadataBuilder) TotalMessages(n int) *MetadataBuilder {
	b.m.TotalMessages = n
	return b
}

func (b *MetadataBuilder) CodeMessages(n int) *MetadataBuilder {
	b.m.CodeMessages = n
	return b
}

func (b *MetadataBuilder) MessageTypes(types []string) *MetadataBuilder {
	b.m.MessageTypes = types
	return b
}

func (b *MetadataBuilder) TokenCount(n int) *MetadataBuilder {
	b.m.TokenCount = n
	return b
}

func (b *MetadataBuilder) CustomInstructions(ci *CustomInstructions) *MetadataBuilder {
	if !ci.IsEmpty() {
		b.m.CustomInstructions = ci
	}
	return b
}

func (b *MetadataBuilder) Build() Metadata {
	return b.m
}
