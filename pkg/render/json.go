package render

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// JSON serializes a value as indented JSON without HTML escaping, so URLs
// and markdown snippets inside content stay readable.
func JSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "could not encode JSON document")
	}
	return buf.Bytes(), nil
}
