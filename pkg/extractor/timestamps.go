package extractor

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatsift/pkg/document"
)

// parseISOTimestamp converts the metadata's ISO 8601 string back to a
// time.Time for filesystem use. Pre-1970 times are rejected: negative Unix
// timestamps break on some platforms and exports occasionally carry them.
func parseISOTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	t, err := time.Parse("2006-01-02T15:04:05-07:00", s)
	if err != nil {
		log.Debug().Str("timestamp", s).Err(err).Msg("could not parse timestamp")
		return time.Time{}, false
	}
	if t.Unix() < 0 {
		log.Debug().Str("timestamp", s).Msg("skipping pre-1970 timestamp")
		return time.Time{}, false
	}
	return t, true
}

// syncFileTimestamps sets an output file's access and modification times
// from the conversation's own timeline, so file managers sort converted
// archives by conversation date. Failures are cosmetic and only counted.
func (e *Extractor) syncFileTimestamps(path string, meta document.Metadata) {
	updatedSrc := meta.Updated
	if updatedSrc == "" {
		updatedSrc = meta.Created
	}
	updated, ok := parseISOTimestamp(updatedSrc)
	if !ok {
		return
	}

	if err := os.Chtimes(path, updated, updated); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to sync file timestamps")
		e.timestampSyncFailures++
	}
}
