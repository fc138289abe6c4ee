package document

// Document is the per-conversation JSON output schema, used both for
// individual files and as the element type of the consolidated export.
type Document struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Created            string              `json:"created,omitempty"`
	Updated            string              `json:"updated,omitempty"`
	Model              string              `json:"model,omitempty"`
	ProjectID          string              `json:"project_id,omitempty"`
	TotalMessages      int                 `json:"total_messages"`
	CodeMessages       int                 `json:"code_messages"`
	MessageTypes       []string            `json:"message_types"`
	TokenCount         int                 `json:"token_count,omitempty"`
	Starred            bool                `json:"starred"`
	Archived           bool                `json:"archived"`
	ChatURL            string              `json:"chat_url"`
	CustomInstructions *CustomInstructions `json:"custom_instructions,omitempty"`
	Messages           []Message           `json:"messages"`
}

// NewDocument assembles the JSON document from finalized metadata and the
// merged message list.
func NewDocument(meta Metadata, messages []Message) *Document {
	if messages == nil {
		messages = []Message{}
	}
	types := meta.MessageTypes
	if types == nil {
		types = []string{}
	}
	return &Document{
		ID:                 meta.ID,
		Title:              meta.Title,
		Created:            meta.Created,
		Updated:            meta.Updated,
		Model:              meta.Model,
		ProjectID:          meta.ProjectID,
		TotalMessages:      meta.TotalMessages,
		CodeMessages:       meta.CodeMessages,
		MessageTypes:       types,
		TokenCount:         meta.TokenCount,
		Starred:            meta.Starred,
		Archived:           meta.Archived,
		ChatURL:            meta.ChatURL,
		CustomInstructions: meta.CustomInstructions,
		Messages:           messages,
	}
}

// ExportMetadata is the header block of the consolidated single-file export.
type ExportMetadata struct {
	Timestamp               string `json:"timestamp"`
	TotalConversations      int    `json:"total_conversations"`
	SuccessfulConversations int    `json:"successful_conversations"`
	FailedConversations     int    `json:"failed_conversations"`
	ExtractorVersion        string `json:"extractor_version"`
	ExportFormat            string `json:"export_format"`
	SourceFile              string `json:"source_file"`
	TimestampSyncEnabled    bool   `json:"timestamp_sync_enabled"`
}

// ConsolidatedExport is the single-file JSON export layout.
type ConsolidatedExport struct {
	ExportMetadata ExportMetadata `json:"export_metadata"`
	Conversations  []*Document    `json:"conversations"`
}
