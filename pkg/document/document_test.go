package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestMetadataBuilderDefaults(t *testing.T) {
	meta := NewMetadataBuilder("conv-1", "").Build()
	assert.Equal(t, "conv-1", meta.ID)
	assert.Equal(t, "Untitled Conversation", meta.Title)
	assert.Equal(t, "https://chatgpt.com/c/conv-1", meta.ChatURL)
	assert.Empty(t, meta.Created)
}

func TestMetadataBuilderTimestamps(t *testing.T) {
	// 2024-03-15 12:30:45 UTC
	meta := NewMetadataBuilder("c", "T").
		Created(f64(1710505845)).
		Updated(f64(1710505845.75)).
		Build()

	assert.Equal(t, "2024-03-15T12:30:45Z", meta.Created)
	assert.Equal(t, "2024-03-15T12:30:45Z", meta.Updated)
}

func TestMetadataBuilderNilTimestampsSkipped(t *testing.T) {
	meta := NewMetadataBuilder("c", "T").Created(nil).Updated(f64(0)).Build()
	assert.Empty(t, meta.Created)
	assert.Empty(t, meta.Updated)
}

func TestMetadataBuilderProjectID(t *testing.T) {
	meta := NewMetadataBuilder("c", "T").ProjectID("g-p-project-abc").Build()
	assert.Equal(t, "g-p-project-abc", meta.ProjectID)

	// Custom GPT ids do not carry the project prefix.
	meta = NewMetadataBuilder("c", "T").ProjectID("g-abcdef").Build()
	assert.Empty(t, meta.ProjectID)

	meta = NewMetadataBuilder("c", "T").ProjectID("").Build()
	assert.Empty(t, meta.ProjectID)
}

func TestMetadataBuilderCustomInstructions(t *testing.T) {
	meta := NewMetadataBuilder("c", "T").CustomInstructions(nil).Build()
	assert.Nil(t, meta.CustomInstructions)

	meta = NewMetadataBuilder("c", "T").CustomInstructions(&CustomInstructions{}).Build()
	assert.Nil(t, meta.CustomInstructions)

	ci := &CustomInstructions{AboutUser: "golang"}
	meta = NewMetadataBuilder("c", "T").CustomInstructions(ci).Build()
	assert.Equal(t, ci, meta.CustomInstructions)
}

func TestNewDocumentEmptySlices(t *testing.T) {
	doc := NewDocument(NewMetadataBuilder("c", "T").Build(), nil)
	require.NotNil(t, doc.Messages)
	require.NotNil(t, doc.MessageTypes)
	assert.Empty(t, doc.Messages)
	assert.Empty(t, doc.MessageTypes)
}

func TestCustomInstructionsIsEmpty(t *testing.T) {
	assert.True(t, (*CustomInstructions)(nil).IsEmpty())
	assert.True(t, (&CustomInstructions{}).IsEmpty())
	assert.False(t, (&CustomInstructions{AboutModel: "x"}).IsEmpty())
}
