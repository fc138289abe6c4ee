package sample

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Complexity selects the conversation shape the generator produces.
type Complexity string

const (
	Simple  Complexity = "simple"
	Complex Complexity = "complex"
	Mixed   Complexity = "mixed"
)

// Options configures the synthetic archive generator.
type Options struct {
	Count      int
	Complexity Complexity
	Seed       int64
}

// Generator produces synthetic conversations.json archives for testing and
// benchmarking the pipeline without a real export.
type Generator struct {
	rng  *rand.Rand
	base float64
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		base: float64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()),
	}
}

// Generate builds count conversations of the requested complexity. Mixed
// produces one complex conversation for every five.
func (g *Generator) Generate(count int, complexity Complexity) []*export.Conversation {
	conversations := make([]*export.Conversation, 0, count)
	for i := 0; i < count; i++ {
		c := complexity
		if c == Mixed {
			if i%5 == 0 {
				c = Complex
			} else {
				c = Simple
			}
		}
		if c == Complex {
			conversations = append(conversations, g.complexConversation(i))
		} else {
			conversations = append(conversations, g.simpleConversation(i))
		}
	}
	return conversations
}

// WriteArchive generates conversations and writes them as a conversations.json
// style array.
func WriteArchive(path string, opts Options) (int, error) {
	if opts.Count <= 0 {
		opts.Count = 100
	}
	if opts.Complexity == "" {
		opts.Complexity = Simple
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	g := NewGenerator(opts.Seed)
	conversations := g.Generate(opts.Count, opts.Complexity)

	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal conversations")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, errors.Wrapf(err, "could not write %s", path)
	}
	return len(conversations), nil
}

var topics = []string{"Python Help", "Code Review", "Debug Issue", "Learning Question"}
var algorithms = []string{"sorting", "searching", "hashing", "recursion"}
var models = []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo"}

func (g *Generator) simpleConversation(index int) *export.Conversation {
	create := g.base + float64(index)*3600
	update := create + 1800

	question := fmt.Sprintf("Question %d: How do I implement %s?",
		index, algorithms[g.rng.Intn(len(algorithms))])
	answer := fmt.Sprintf("Answer %d: Here's how you can implement that...\n```python\n# Example code\nprint('Hello')\n```", index)

	root := uuid.NewString()
	userNode := uuid.NewString()
	assistantNode := uuid.NewString()

	return &export.Conversation{
		ID:               fmt.Sprintf("conv-%06d", index),
		Title:            fmt.Sprintf("Conversation %d: %s", index, topics[g.rng.Intn(len(topics))]),
		CreateTime:       &create,
		UpdateTime:       &update,
		DefaultModelSlug: models[g.rng.Intn(len(models))],
		CurrentNode:      assistantNode,
		Mapping: map[string]*export.Node{
			root: {
				ID:       root,
				Children: []string{userNode},
			},
			userNode: {
				ID:       userNode,
				Parent:   root,
				Children: []string{assistantNode},
				Message:  textMessage(userNode, "user", question, create+60),
			},
			assistantNode: {
				ID:      assistantNode,
				Parent:  userNode,
				Message: textMessage(assistantNode, "assistant", answer, create+120),
			},
		},
	}
}

// complexConversation exercises the harder paths in the pipeline: a user
// system message, code and multimodal content, citations, an edit branch, and
// a project template id.
func (g *Generator) complexConversation(index int) *export.Conversation {
	create := g.base + float64(index)*7200
	update := create + 3600

	conv := &export.Conversation{
		ID:               fmt.Sprintf("complex-%06d", index),
		Title:            fmt.Sprintf("Complex Conversation %d", index),
		CreateTime:       &create,
		UpdateTime:       &update,
		DefaultModelSlug: "gpt-4",
		SafeURLs:         []string{fmt.Sprintf("https://safe%d.example.com", index)},
		Mapping:          map[string]*export.Node{},
	}
	if index%3 == 0 {
		conv.ConversationTemplateID = fmt.Sprintf("g-p-project-%d", index%3)
	}

	root := uuid.NewString()
	system := uuid.NewString()
	conv.Mapping[root] = &export.Node{ID: root, Children: []string{system}}

	systemMsg := textMessage(system, "system", "You are a helpful coding assistant.", create)
	systemMsg.Metadata = map[string]interface{}{"is_user_system_message": true}
	conv.Mapping[system] = &export.Node{ID: system, Parent: root, Message: systemMsg}

	parent := system
	for i := 0; i < 5; i++ {
		id := uuid.NewString()
		role := "assistant"
		if i%2 == 0 {
			role = "user"
		}

		msg := &export.Message{
			ID:     id,
			Author: export.Author{Role: role},
			Status: "finished_successfully",
			Weight: 1,
		}
		ts := create + float64(i+1)*60
		msg.CreateTime = &ts

		switch g.rng.Intn(3) {
		case 0:
			msg.Content = &export.Content{
				ContentType: "text",
				Parts:       []*export.Part{{Str: fmt.Sprintf("Message %d: explain something", i), IsStr: true}},
			}
		case 1:
			msg.Content = &export.Content{
				ContentType: "code",
				Language:    "python",
				Text:        fmt.Sprintf("def function_%d():\n    return %d", i, i),
			}
		default:
			msg.Content = &export.Content{
				ContentType: "multimodal_text",
				Parts: []*export.Part{
					{Str: fmt.Sprintf("Text part %d", i), IsStr: true},
					{
						ContentType: "image_asset_pointer",
						Metadata: map[string]interface{}{
							"dalle": map[string]interface{}{"prompt": fmt.Sprintf("Image %d", i)},
						},
					},
				},
			}
		}

		if g.rng.Float64() > 0.7 {
			msg.Metadata = map[string]interface{}{
				"citations": []interface{}{
					map[string]interface{}{
						"metadata": map[string]interface{}{
							"url":   fmt.Sprintf("https://example%d.com", i),
							"title": fmt.Sprintf("Source %d", i),
						},
					},
				},
			}
		}

		conv.Mapping[id] = &export.Node{ID: id, Parent: parent, Message: msg}
		conv.Mapping[parent].Children = append(conv.Mapping[parent].Children, id)
		parent = id
		conv.CurrentNode = id
	}

	// Dangling edit branch off the system message, never on the active path.
	branch := uuid.NewString()
	conv.Mapping[branch] = &export.Node{
		ID:      branch,
		Parent:  system,
		Message: textMessage(branch, "user", "Actually, let me rephrase that...", create+30),
	}
	conv.Mapping[system].Children = append(conv.Mapping[system].Children, branch)

	return conv
}

func textMessage(id, role, text string, ts float64) *export.Message {
	return &export.Message{
		ID:         id,
		Author:     export.Author{Role: role},
		CreateTime: &ts,
		Status:     "finished_successfully",
		Weight:     1,
		Content: &export.Content{
			ContentType: "text",
			Parts:       []*export.Part{{Str: text, IsStr: true}},
		},
	}
}
