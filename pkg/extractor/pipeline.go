package extractor

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/go-go-golems/chatsift/pkg/process"
	"github.com/go-go-golems/chatsift/pkg/resolve"
	"github.com/go-go-golems/chatsift/pkg/tracker"
)

// Result is one converted conversation, ready for serialization. A nil
// Result means the conversation was empty after filtering and produces no
// output.
type Result struct {
	Meta     document.Metadata
	Messages []document.Message
	Doc      *document.Document
}

// Convert runs the full pipeline on one decoded conversation: resolve the
// graph, gather statistics, filter and extract messages, merge continuation
// fragments, and finalize the metadata block. countTokens additionally
// attaches an approximate token count.
//
// Exported so single-conversation consumers (show, fetch) share the exact
// batch semantics.
func Convert(conv *export.Conversation, schema *tracker.Schema, countTokens bool) *Result {
	convID := conv.Key()

	builder := document.NewMetadataBuilder(convID, conv.Title).
		Created(conv.CreateTime).
		Updated(conv.UpdateTime).
		Model(conv.DefaultModelSlug).
		Starred(conv.IsStarred).
		Archived(conv.IsArchived).
		ProjectID(conv.ConversationTemplateID)

	raw := resolve.Thread(conv.Mapping, conv.CurrentNode, convID, schema)

	stats := process.CollectStatistics(raw, convID)

	processor := process.NewProcessor(schema)
	messages := processor.BuildMessages(raw, convID, conv)
	merged := process.MergeContinuations(messages)

	if len(merged) == 0 {
		return nil
	}

	builder.TotalMessages(len(merged)).
		CodeMessages(stats.CodeCount).
		MessageTypes(stats.SortedContentTypes()).
		CustomInstructions(stats.CustomInstructions)

	if countTokens {
		builder.TokenCount(process.CountTokens(merged))
	}

	meta := builder.Build()

	return &Result{
		Meta:     meta,
		Messages: merged,
		Doc:      document.NewDocument(meta, merged),
	}
}

// processOne decodes and converts one raw archive entry. Any error or panic
// is turned into a failure record; a broken conversation must never take the
// batch down with it.
func (e *Extractor) processOne(raw json.RawMessage, schema *tracker.Schema, failures *tracker.Failures) (result *Result, ok bool) {
	id, title := export.PeekIdentity(raw)
	var conv *export.Conversation

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("conversation_id", id).Interface("panic", r).
				Msg("panic while processing conversation")
			failures.Record(conv, id, truncateTitle(title), errors.Errorf("panic: %v", r))
			result = nil
			ok = false
		}
	}()

	conv, err := export.DecodeConversation(raw)
	if err != nil {
		failures.Record(nil, id, truncateTitle(title), err)
		return nil, false
	}

	return Convert(conv, schema, e.opts.CountTokens), true
}

func truncateTitle(title string) string {
	if len(title) > 50 {
		return title[:50]
	}
	return title
}
