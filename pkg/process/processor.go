// Package process turns raw resolved messages into renderable conversation
// turns: it filters noise nodes, extracts text from the loosely typed content
// union, collects citations, URLs and file references, and re-merges
// continuation fragments into whole assistant replies.
package process

// Tracker receives content-type and part-type observations during
// extraction. A nil-value *tracker.Schema satisfies it safely.
type Tracker interface {
	TrackContentType(contentType, convID string)
	TrackPartType(partType, convID string)
}

// Processor bundles the per-message operations around a shared schema
// tracker. It carries no other state and is safe to reuse across
// conversations within one worker.
type Processor struct {
	tracker Tracker
}

func NewProcessor(t Tracker) *Processor {
	return &Processor{tracker: t}
}

func (p *Processor) trackContentType(contentType, convID string) {
	if p.tracker != nil {
		p.tracker.TrackContentType(contentType, convID)
	}
}

func (p *Processor) trackPartType(partType, convID string) {
	if p.tracker != nil {
		p.tracker.TrackPartType(partType, convID)
	}
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case nil:
		return false
	default:
		return true
	}
}

func metadataValue(metadata map[string]interface{}, key string) interface{} {
	if metadata == nil {
		return nil
	}
	return metadata[key]
}
