package normalize

import "github.com/gertd/go-pluralize"

// Inflector is the naming strategy for table and key derivation:
// object keys pluralize into collection table names, and table names
// singularize into primary-key field names. It is injected rather than
// global so tests can supply a deterministic stub.
type Inflector interface {
	Singular(name string) string
	Plural(name string) string
}

// NewInflector returns the production English inflector
// (address ↔ addresses, tag ↔ tags).
func NewInflector() Inflector {
	return &pluralizeInflector{client: pluralize.NewClient()}
}

type pluralizeInflector struct {
	client *pluralize.Client
}

func (p *pluralizeInflector) Singular(name string) string { return p.client.Singular(name) }
func (p *pluralizeInflector) Plural(name string) string   { return p.client.Plural(name) }
