package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatsift/pkg/export"
)

// ProblemNode is a sample of a structurally suspect node, kept for the
// failure report.
type ProblemNode struct {
	NodeID      string `json:"node_id"`
	Role        string `json:"role,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Issue       string `json:"issue"`
}

// Failure describes one conversation that could not be converted.
type Failure struct {
	ConversationID   string        `json:"conversation_id"`
	Title            string        `json:"title"`
	ErrorMessage     string        `json:"error_message"`
	Category         string        `json:"category"`
	StructuralIssues []string      `json:"structural_issues,omitempty"`
	MessageCount     int           `json:"message_count"`
	HasCurrentNode   bool          `json:"has_current_node"`
	HasMapping       bool          `json:"has_mapping"`
	ProjectID        string        `json:"project_id,omitempty"`
	ProblemNodes     []ProblemNode `json:"problematic_nodes,omitempty"`
}

// Failures is the append-only conversion failure log. Like Schema it is kept
// per worker and merged after the batch.
type Failures struct {
	entries []Failure
}

func NewFailures() *Failures {
	return &Failures{}
}

func (f *Failures) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

func (f *Failures) Entries() []Failure {
	if f == nil {
		return nil
	}
	return f.entries
}

func (f *Failures) Merge(other *Failures) {
	if f == nil || other == nil {
		return
	}
	f.entries = append(f.entries, other.entries...)
}

// Categorize maps an error to a coarse failure category, mirroring the kinds
// of breakage real archives produce: nil dereferences from absent subobjects,
// type mismatches from schema drift, slice misuse, and decode errors.
func Categorize(err error) string {
	if err == nil {
		return "Other"
	}

	var typeErr *json.UnmarshalTypeError
	if pkgerrors.As(err, &typeErr) {
		return "TypeMismatch"
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "nil pointer") || strings.Contains(msg, "invalid memory address"):
		return "NilPointer"
	case strings.Contains(msg, "index out of range"):
		return "IndexRange"
	case strings.Contains(msg, "could not decode") || strings.Contains(msg, "unexpected end of JSON"):
		return "DecodeError"
	default:
		return "Other"
	}
}

// Record captures a failed conversation together with a structural diagnosis
// of its graph. conv may be nil when decoding itself failed.
func (f *Failures) Record(conv *export.Conversation, convID, title string, err error) {
	if f == nil {
		return
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if len(msg) > 500 {
		msg = msg[:500]
	}

	entry := Failure{
		ConversationID: convID,
		Title:          title,
		ErrorMessage:   msg,
		Category:       Categorize(err),
	}

	if conv != nil {
		entry.HasCurrentNode = conv.CurrentNode != ""
		entry.HasMapping = len(conv.Mapping) > 0
		entry.ProjectID = conv.ConversationTemplateID
		entry.StructuralIssues, entry.ProblemNodes, entry.MessageCount = diagnose(conv)
	}

	f.entries = append(f.entries, entry)
}

func diagnose(conv *export.Conversation) ([]string, []ProblemNode, int) {
	var issues []string
	var problems []ProblemNode

	nilContent := 0
	nilParts := 0
	emptyParts := 0
	messageCount := 0

	ids := make([]string, 0, len(conv.Mapping))
	for id := range conv.Mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := conv.Mapping[id]
		if node == nil || node.Message == nil {
			continue
		}
		messageCount++
		msg := node.Message

		shortID := id
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		switch {
		case msg.Content == nil:
			nilContent++
			if len(problems) < 5 {
				problems = append(problems, ProblemNode{
					NodeID: shortID,
					Role:   msg.Author.Role,
					Issue:  "nil content",
				})
			}
		case msg.Content.Parts == nil && contentUsesParts(msg.Content.ContentType):
			nilParts++
			if len(problems) < 5 {
				problems = append(problems, ProblemNode{
					NodeID:      shortID,
					Role:        msg.Author.Role,
					ContentType: msg.Content.ContentType,
					Issue:       "nil parts",
				})
			}
		case msg.Content.Parts != nil && len(msg.Content.Parts) == 0:
			emptyParts++
		}
	}

	if nilContent > 0 {
		issues = append(issues, fmt.Sprintf("nil content in %d messages", nilContent))
	}
	if nilParts > 0 {
		issues = append(issues, fmt.Sprintf("nil parts in %d messages", nilParts))
	}
	if emptyParts > 0 {
		issues = append(issues, fmt.Sprintf("empty parts in %d messages", emptyParts))
	}
	if conv.CurrentNode == "" {
		issues = append(issues, "missing current_node")
	} else if _, ok := conv.Mapping[conv.CurrentNode]; !ok {
		issues = append(issues, "invalid current_node")
	}

	return issues, problems, messageCount
}

func contentUsesParts(contentType string) bool {
	return contentType == "text" || contentType == "multimodal_text"
}

// WriteLog writes conversion_log.log and conversion_failures.json into the
// output directory. Failures to write the log are non-fatal; the conversion
// output itself already exists by the time this runs.
func (f *Failures) WriteLog(outputDir string) {
	if f.Len() == 0 {
		return
	}

	logPath := filepath.Join(outputDir, "conversion_log.log")

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("CONVERSATION EXTRACTION FAILURE LOG\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Total Failures: %d\n", len(f.entries)))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	categories := map[string]int{}
	for _, entry := range f.entries {
		categories[entry.Category]++
	}
	b.WriteString("FAILURE CATEGORIES:\n")
	for _, cat := range sortedByCount(categories) {
		b.WriteString(fmt.Sprintf("  %s: %d\n", cat, categories[cat]))
	}
	b.WriteString("\n")

	b.WriteString("FAILED CONVERSATION IDs:\n")
	for _, entry := range f.entries {
		b.WriteString("  - " + entry.ConversationID + "\n")
	}
	b.WriteString("\n")

	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("DETAILED FAILURE INFORMATION\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, entry := range f.entries {
		b.WriteString(fmt.Sprintf("Failure #%d\n", i+1))
		b.WriteString("ID: " + entry.ConversationID + "\n")
		b.WriteString("Title: " + entry.Title + "\n")
		b.WriteString("Category: " + entry.Category + "\n")
		b.WriteString("Error: " + entry.ErrorMessage + "\n")
		if len(entry.StructuralIssues) > 0 {
			b.WriteString("Structural Issues: " + strings.Join(entry.StructuralIssues, ", ") + "\n")
		}
		if len(entry.ProblemNodes) > 0 {
			b.WriteString("\nProblematic Nodes (sample):\n")
			for j, node := range entry.ProblemNodes {
				if j >= 3 {
					break
				}
				b.WriteString(fmt.Sprintf("  - Node %s: role=%s, content_type=%s, issue=%s\n",
					node.NodeID, node.Role, node.ContentType, node.Issue))
			}
		}
		b.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")
	}

	if err := os.WriteFile(logPath, []byte(b.String()), 0644); err != nil {
		log.Warn().Err(err).Str("path", logPath).Msg("failed to write conversion log")
		return
	}

	jsonPath := filepath.Join(outputDir, "conversion_failures.json")
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err == nil {
		err = os.WriteFile(jsonPath, data, 0644)
	}
	if err != nil {
		log.Warn().Err(err).Str("path", jsonPath).Msg("failed to write JSON failure log")
	}
}

func sortedByCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
