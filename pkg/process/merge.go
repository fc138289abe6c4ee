package process

import (
	"sort"

	"github.com/go-go-golems/chatsift/pkg/document"
)

// MergeContinuations collapses runs of consecutive assistant messages into
// one logical reply. The export splits a single assistant turn across several
// graph nodes for streaming and length reasons; without this, one answer
// renders as several assistant sections.
//
// Graph indices gate the merge: a fragment is only absorbed when it is the
// true graph successor of the run so far, so messages that merely became
// neighbors after filtering removed an intervening turn stay separate.
// Messages without an index (synthetic ones) merge on list adjacency alone.
//
// Merging is idempotent: running it on already-merged input is a no-op.
func MergeContinuations(messages []document.Message) []document.Message {
	if len(messages) == 0 {
		return messages
	}

	var merged []document.Message
	i := 0

	for i < len(messages) {
		current := messages[i]

		if current.Role != "assistant" {
			merged = append(merged, current)
			i++
			continue
		}

		combined := current
		// Copy slices so absorbed fragments never alias the input.
		combined.Citations = append([]document.Citation(nil), current.Citations...)
		combined.WebURLs = append([]string(nil), current.WebURLs...)

		lastIndex := current.GraphIndex
		j := i + 1
		for j < len(messages) && messages[j].Role == "assistant" {
			next := messages[j]
			if !graphAdjacent(lastIndex, next.GraphIndex) {
				break
			}

			combined.Content += "\n\n" + next.Content
			combined.Citations = append(combined.Citations, next.Citations...)
			combined.WebURLs = append(combined.WebURLs, next.WebURLs...)

			lastIndex = next.GraphIndex
			j++
		}

		if j > i+1 {
			combined.WebURLs = dedupeSorted(combined.WebURLs)
		}
		if len(combined.Citations) == 0 {
			combined.Citations = nil
		}
		if len(combined.WebURLs) == 0 {
			combined.WebURLs = nil
		}

		merged = append(merged, combined)
		i = j
	}

	return merged
}

// graphAdjacent reports whether a fragment with index next directly follows
// a fragment with index last in the resolved sequence. Unknown indices (-1)
// on either side fall back to trusting list adjacency.
func graphAdjacent(last, next int) bool {
	if last < 0 || next < 0 {
		return true
	}
	return next == last+1
}

func dedupeSorted(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
