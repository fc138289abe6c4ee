package tracker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaNilReceiverSafe(t *testing.T) {
	var s *Schema
	s.TrackContentType("text", "c")
	s.TrackAuthorRole("user", "c")
	s.TrackRecipient("browser", "c")
	s.TrackMetadataKeys([]string{"k"}, "c")
	s.TrackPartType("image_asset_pointer", "c")
	s.TrackFinishType("stop", "c")
	s.Merge(NewSchema())
}

func TestSchemaIgnoresEmptyValues(t *testing.T) {
	s := NewSchema()
	s.TrackContentType("", "c")
	s.TrackAuthorRole("", "c")
	s.TrackRecipient("", "c")
	assert.Empty(t, s.ContentTypes)
	assert.Empty(t, s.AuthorRoles)
	assert.Empty(t, s.Recipients)
}

func TestSchemaUnknownSampling(t *testing.T) {
	s := NewSchema()
	s.TrackContentType("text", "c1")
	s.TrackContentType("novel_type", "c2")

	assert.Contains(t, s.ContentTypes, "novel_type")
	require.Len(t, s.UnknownSamples["content_types"], 1)
	assert.Equal(t, "c2: novel_type", s.UnknownSamples["content_types"][0])

	// Known values never produce samples.
	assert.Len(t, s.UnknownSamples["content_types"], 1)
}

func TestSchemaSampleCap(t *testing.T) {
	s := NewSchema()
	for i := 0; i < 20; i++ {
		s.TrackPartType(fmt.Sprintf("weird_part_%d", i), "c")
	}
	assert.Len(t, s.UnknownSamples["part_types"], maxUnknownSamples)
	assert.Len(t, s.PartTypes, 20)
}

func TestSchemaMerge(t *testing.T) {
	a := NewSchema()
	a.TrackContentType("text", "c1")
	a.TrackAuthorRole("user", "c1")

	b := NewSchema()
	b.TrackContentType("code", "c2")
	b.TrackContentType("novel_type", "c2")
	b.TrackRecipient("python", "c2")

	a.Merge(b)
	assert.Contains(t, a.ContentTypes, "text")
	assert.Contains(t, a.ContentTypes, "code")
	assert.Contains(t, a.ContentTypes, "novel_type")
	assert.Contains(t, a.Recipients, "python")
	assert.Len(t, a.UnknownSamples["content_types"], 1)
}

func TestSchemaReport(t *testing.T) {
	s := NewSchema()
	s.TrackContentType("text", "c1")
	s.TrackContentType("novel_type", "c1")
	s.TrackAuthorRole("user", "c1")
	s.TrackRecipient("browser", "c1")
	s.TrackFinishType("stop", "c1")
	s.TrackMetadataKeys([]string{"model_slug", "citations"}, "c1")

	report := s.Report()
	assert.Contains(t, report, "SCHEMA EVOLUTION TRACKING REPORT")
	assert.Contains(t, report, "## Content Types")
	assert.Contains(t, report, "Known found: 1")
	assert.Contains(t, report, "Unknown found: 1")
	assert.Contains(t, report, "- novel_type")
	assert.Contains(t, report, "c1: novel_type")
	assert.Contains(t, report, "## Recipients (Tools)")
	assert.Contains(t, report, "- browser")
	assert.Contains(t, report, "## Finish Types")
	assert.Contains(t, report, "- stop")
	assert.Contains(t, report, "Total unique keys: 2")
}
