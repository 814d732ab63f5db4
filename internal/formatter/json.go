package formatter

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v as indented JSON, the machine-readable surface for
// every read-only command.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
