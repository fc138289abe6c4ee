// Package resolve reconstructs the linear message sequence a user actually
// saw from a conversation's node mapping. Edits and regenerations create
// sibling branches off a shared ancestor; walking backwards from the current
// leaf makes the live-branch choice implicit and keeps resolution linear in
// conversation depth instead of quadratic in branch count.
package resolve

import (
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatsift/pkg/export"
)

// Tracker receives schema observations made while walking the graph. It is
// write-only: nothing it does can change resolution. A nil-value
// *tracker.Schema satisfies it safely.
type Tracker interface {
	TrackAuthorRole(role, convID string)
	TrackRecipient(recipient, convID string)
	TrackFinishType(finishType, convID string)
	TrackMetadataKeys(keys []string, convID string)
}

// Thread walks the mapping backwards from currentNode to the root and returns
// the on-chain messages in chronological (root to leaf) order.
//
// When currentNode is empty or absent from the mapping, the leaf with the
// highest (weight, update_time) message is used instead; ties are broken by
// node id so the choice is reproducible (the original implementation left
// this to incidental map ordering).
//
// Malformed graphs never make this loop or fail: a visited set stops cycles
// dead, dangling parent references end the walk, and nodes without a message
// (the root placeholder) are skipped.
func Thread(mapping map[string]*export.Node, currentNode, convID string, t Tracker) []*export.Message {
	if len(mapping) == 0 {
		return nil
	}

	if _, ok := mapping[currentNode]; currentNode == "" || !ok {
		currentNode = fallbackLeaf(mapping)
		if currentNode == "" {
			return nil
		}
		log.Debug().Str("conversation_id", convID).Str("leaf", currentNode).
			Msg("current_node missing, selected fallback leaf")
	}

	var messages []*export.Message
	visited := map[string]struct{}{}

	nodeID := currentNode
	for nodeID != "" {
		if _, seen := visited[nodeID]; seen {
			log.Warn().Str("conversation_id", convID).Str("node_id", nodeID).
				Msg("cycle detected in conversation graph, truncating walk")
			break
		}
		visited[nodeID] = struct{}{}

		node, ok := mapping[nodeID]
		if !ok || node == nil {
			break
		}

		if msg := node.Message; msg != nil {
			observe(msg, convID, t)
			messages = append(messages, msg)
		}

		nodeID = node.Parent
	}

	// The walk ran leaf to root; output is chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages
}

// fallbackLeaf picks the leaf node carrying the message with the highest
// (weight, update_time), breaking ties by node id. Returns "" when no leaf
// has a message.
func fallbackLeaf(mapping map[string]*export.Node) string {
	best := ""
	bestWeight := 0.0
	bestUpdate := 0.0

	for id, node := range mapping {
		if node == nil || len(node.Children) > 0 || node.Message == nil {
			continue
		}

		weight := node.Message.Weight
		update := 0.0
		if node.Message.UpdateTime != nil {
			update = *node.Message.UpdateTime
		}

		better := false
		switch {
		case best == "":
			better = true
		case weight != bestWeight:
			better = weight > bestWeight
		case update != bestUpdate:
			better = update > bestUpdate
		default:
			better = id < best
		}

		if better {
			best = id
			bestWeight = weight
			bestUpdate = update
		}
	}

	return best
}

func observe(msg *export.Message, convID string, t Tracker) {
	if t == nil {
		return
	}

	if len(msg.Metadata) > 0 {
		keys := make([]string, 0, len(msg.Metadata))
		for k := range msg.Metadata {
			keys = append(keys, k)
		}
		t.TrackMetadataKeys(keys, convID)
	}

	t.TrackAuthorRole(msg.Author.Role, convID)

	recipient := msg.Author.Recipient
	if recipient == "" {
		recipient = msg.Recipient
	}
	t.TrackRecipient(recipient, convID)

	if msg.FinishDetails != nil {
		t.TrackFinishType(msg.FinishDetails.Type, convID)
	}
}
