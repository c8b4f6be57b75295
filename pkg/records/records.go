// Package records defines the in-memory form of one decoded JSON record.
package records

// Record is one JSON object from the input sequence. Values are the
// decoded JSON forms: string, bool, json.Number, nil, map[string]any,
// or []any. A record has no identity beyond its position in the input
// unless it carries its own "id" field.
type Record map[string]any

// IsScalar reports whether v is a leaf value (anything that is not an
// object or an array). nil counts as a scalar: JSON null is a value,
// not a container.
func IsScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}
