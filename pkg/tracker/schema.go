package tracker

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const maxUnknownSamples = 10

// KnownContentTypes are the content types the extractor dispatches on.
// Anything outside this set is worth surfacing for operator review.
var KnownContentTypes = map[string]struct{}{
	"text":                    {},
	"code":                    {},
	"multimodal_text":         {},
	"execution_output":        {},
	"tether_quote":            {},
	"tether_browsing_display": {},
	"user_editable_context":   {},
	"model_editable_context":  {},
	"thoughts":                {},
	"reasoning_recap":         {},
	"sonic_webpage":           {},
	"system_error":            {},
}

var KnownRoles = map[string]struct{}{
	"system":    {},
	"user":      {},
	"assistant": {},
	"tool":      {},
}

var KnownPartTypes = map[string]struct{}{
	"image_asset_pointer":     {},
	"audio_transcription":     {},
	"audio_asset_pointer":     {},
	"video_asset_pointer":     {},
	"code_interpreter_output": {},
}

// Schema accumulates every content type, role, part type, recipient, finish
// type and metadata key seen during a run, so that new export schema values
// show up in the report instead of silently degrading. It is write-only as
// far as the pipeline is concerned: nothing here ever changes resolution.
//
// A Schema is not safe for concurrent use. Parallel workers each get their
// own instance and the driver merges them once the batch is done.
type Schema struct {
	ContentTypes map[string]struct{}
	AuthorRoles  map[string]struct{}
	Recipients   map[string]struct{}
	MetadataKeys map[string]struct{}
	PartTypes    map[string]struct{}
	FinishTypes  map[string]struct{}

	// UnknownSamples maps a category to "convID: value" samples, capped at
	// maxUnknownSamples per category.
	UnknownSamples map[string][]string
}

func NewSchema() *Schema {
	return &Schema{
		ContentTypes:   map[string]struct{}{},
		AuthorRoles:    map[string]struct{}{},
		Recipients:     map[string]struct{}{},
		MetadataKeys:   map[string]struct{}{},
		PartTypes:      map[string]struct{}{},
		FinishTypes:    map[string]struct{}{},
		UnknownSamples: map[string][]string{},
	}
}

func (s *Schema) sample(category, convID, value string) {
	if len(s.UnknownSamples[category]) >= maxUnknownSamples {
		return
	}
	s.UnknownSamples[category] = append(s.UnknownSamples[category], fmt.Sprintf("%s: %s", convID, value))
}

func (s *Schema) TrackContentType(contentType, convID string) {
	if s == nil || contentType == "" {
		return
	}
	s.ContentTypes[contentType] = struct{}{}
	if _, known := KnownContentTypes[contentType]; !known {
		s.sample("content_types", convID, contentType)
	}
}

func (s *Schema) TrackAuthorRole(role, convID string) {
	if s == nil || role == "" {
		return
	}
	s.AuthorRoles[role] = struct{}{}
	if _, known := KnownRoles[role]; !known {
		s.sample("author_roles", convID, role)
	}
}

func (s *Schema) TrackRecipient(recipient, convID string) {
	if s == nil || recipient == "" {
		return
	}
	s.Recipients[recipient] = struct{}{}
}

func (s *Schema) TrackMetadataKeys(keys []string, convID string) {
	if s == nil {
		return
	}
	for _, k := range keys {
		s.MetadataKeys[k] = struct{}{}
	}
}

func (s *Schema) TrackPartType(partType, convID string) {
	if s == nil || partType == "" {
		return
	}
	s.PartTypes[partType] = struct{}{}
	if _, known := KnownPartTypes[partType]; !known {
		s.sample("part_types", convID, partType)
	}
}

func (s *Schema) TrackFinishType(finishType, convID string) {
	if s == nil || finishType == "" {
		return
	}
	s.FinishTypes[finishType] = struct{}{}
}

// Merge folds another tracker into this one. Sample lists stay capped;
// ordering across workers is not meaningful and not preserved.
func (s *Schema) Merge(other *Schema) {
	if s == nil || other == nil {
		return
	}
	for k := range other.ContentTypes {
		s.ContentTypes[k] = struct{}{}
	}
	for k := range other.AuthorRoles {
		s.AuthorRoles[k] = struct{}{}
	}
	for k := range other.Recipients {
		s.Recipients[k] = struct{}{}
	}
	for k := range other.MetadataKeys {
		s.MetadataKeys[k] = struct{}{}
	}
	for k := range other.PartTypes {
		s.PartTypes[k] = struct{}{}
	}
	for k := range other.FinishTypes {
		s.FinishTypes[k] = struct{}{}
	}
	for category, samples := range other.UnknownSamples {
		for _, sample := range samples {
			if len(s.UnknownSamples[category]) >= maxUnknownSamples {
				break
			}
			s.UnknownSamples[category] = append(s.UnknownSamples[category], sample)
		}
	}
}

func splitKnown(seen, known map[string]struct{}) (knownSeen, unknownSeen []string) {
	for k := range seen {
		if _, ok := known[k]; ok {
			knownSeen = append(knownSeen, k)
		} else {
			unknownSeen = append(unknownSeen, k)
		}
	}
	sort.Strings(knownSeen)
	sort.Strings(unknownSeen)
	return knownSeen, unknownSeen
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Report renders the human-readable schema evolution report written next to
// the converted output.
func (s *Schema) Report() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("SCHEMA EVOLUTION TRACKING REPORT\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format(time.RFC3339)))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	writeSection := func(title string, seen, known map[string]struct{}, sampleCategory string) {
		knownSeen, unknownSeen := splitKnown(seen, known)
		b.WriteString("## " + title + "\n")
		b.WriteString(fmt.Sprintf("  Known found: %d\n", len(knownSeen)))
		b.WriteString(fmt.Sprintf("  Unknown found: %d\n", len(unknownSeen)))
		if len(unknownSeen) > 0 {
			b.WriteString("  Unknown values:\n")
			for _, v := range unknownSeen {
				b.WriteString("    - " + v + "\n")
			}
			if samples := s.UnknownSamples[sampleCategory]; len(samples) > 0 {
				b.WriteString("  Sample conversations:\n")
				for i, sample := range samples {
					if i >= 3 {
						break
					}
					b.WriteString("    " + sample + "\n")
				}
			}
		}
		b.WriteString("\n")
	}

	writeSection("Content Types", s.ContentTypes, KnownContentTypes, "content_types")
	writeSection("Author Roles", s.AuthorRoles, KnownRoles, "author_roles")
	writeSection("Part Types in Multimodal Content", s.PartTypes, KnownPartTypes, "part_types")

	if len(s.Recipients) > 0 {
		b.WriteString("## Recipients (Tools)\n")
		b.WriteString(fmt.Sprintf("  Unique recipients found: %d\n", len(s.Recipients)))
		for i, r := range sortedKeys(s.Recipients) {
			if i >= 10 {
				break
			}
			b.WriteString("    - " + r + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.FinishTypes) > 0 {
		b.WriteString("## Finish Types\n")
		b.WriteString(fmt.Sprintf("  Unique finish types found: %d\n", len(s.FinishTypes)))
		for _, ft := range sortedKeys(s.FinishTypes) {
			b.WriteString("    - " + ft + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.MetadataKeys) > 0 {
		b.WriteString("## Metadata Keys\n")
		b.WriteString(fmt.Sprintf("  Total unique keys: %d\n", len(s.MetadataKeys)))
		b.WriteString("\n")
	}

	return b.String()
}
