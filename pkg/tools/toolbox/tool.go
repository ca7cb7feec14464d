// Package toolbox defines tool descriptors that callers can declare to a completer.
package toolbox

import "encoding/json"

// Tool describes a callable tool with a name, description, and JSON Schema
// for its input. Whether a provider supports tool invocation at all is up to
// the adapter; some reject any declared tools outright.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}
