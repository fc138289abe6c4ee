package process

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"

	"github.com/go-go-golems/chatsift/pkg/document"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// CountTokens returns the approximate token count of a conversation's
// extracted content using the cl100k_base encoding. Tokenizer failures
// degrade to 0; token counts are a convenience statistic, not part of the
// conversion contract.
func CountTokens(messages []document.Message) int {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			log.Warn().Err(err).Msg("could not initialize tokenizer, token counts disabled")
			return
		}
		codec = c
	})
	if codec == nil {
		return 0
	}

	total := 0
	for _, msg := range messages {
		ids, _, err := codec.Encode(msg.Content)
		if err != nil {
			continue
		}
		total += len(ids)
	}
	return total
}
