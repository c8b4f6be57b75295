// Package entity infers a normalized table schema from a record
// sequence.
//
// This is best-effort single-pass structural inference over top-level
// keys, not schema validation. Heterogeneous arrays (mixed scalar and
// object elements) are handled permissively: object elements contribute
// fields, everything else is ignored at extraction time and handled
// per-element by the normalization engine.
package entity

import (
	"sort"

	"json2csv/pkg/records"
)

// Relation describes how a child entity hangs off its parent.
type Relation string

const (
	OneToOne  Relation = "one_to_one"
	OneToMany Relation = "one_to_many"
)

// RootName is the entity representing top-level scalar fields of each
// record. It always exists in an extracted schema.
const RootName = "root"

// Entity is an inferred table definition: a name derived from the
// originating JSON key, a deterministically ordered scalar field set,
// and relations to child entities.
type Entity struct {
	Name      string
	Fields    []string
	Relations map[string]Relation

	fieldSet map[string]struct{}
}

// HasField reports whether the entity's scalar field set contains name.
func (e *Entity) HasField(name string) bool {
	_, ok := e.fieldSet[name]
	return ok
}

func (e *Entity) addField(name string) {
	if _, ok := e.fieldSet[name]; ok {
		return
	}
	e.fieldSet[name] = struct{}{}
	e.Fields = append(e.Fields, name)
}

// Schema maps entity name to its definition.
type Schema map[string]*Entity

// Root returns the root entity.
func (s Schema) Root() *Entity { return s[RootName] }

// Extract analyzes the record sequence and returns the inferred schema.
//
// For each top-level key across all records:
//   - object value: register/extend an entity named after the key whose
//     fields are the union of the object's own scalar keys, related
//     one_to_one to root
//   - non-empty array whose first element is an object: register/extend
//     an entity named after the key, fields sampled from the object
//     elements' scalar keys, related one_to_many to root
//   - anything else (scalar, empty array, array of scalars): a root
//     scalar field
//
// Field sets are sorted lexicographically so later table construction
// does not depend on discovery order.
func Extract(recs []records.Record) Schema {
	s := Schema{RootName: newEntity(RootName)}

	for _, rec := range recs {
		for key, val := range rec {
			switch t := val.(type) {
			case map[string]any:
				e := s.ensure(key)
				for sub, subVal := range t {
					if records.IsScalar(subVal) {
						e.addField(sub)
					}
				}
				s.Root().Relations[key] = OneToOne

			case []any:
				if len(t) == 0 {
					s.Root().addField(key)
					continue
				}
				if _, ok := t[0].(map[string]any); !ok {
					s.Root().addField(key)
					continue
				}
				e := s.ensure(key)
				for _, el := range t {
					obj, ok := el.(map[string]any)
					if !ok {
						continue
					}
					for sub, subVal := range obj {
						if records.IsScalar(subVal) {
							e.addField(sub)
						}
					}
				}
				s.Root().Relations[key] = OneToMany

			default:
				s.Root().addField(key)
			}
		}
	}

	for _, e := range s {
		sort.Strings(e.Fields)
	}
	return s
}

func (s Schema) ensure(name string) *Entity {
	if e, ok := s[name]; ok {
		return e
	}
	e := newEntity(name)
	s[name] = e
	return e
}

func newEntity(name string) *Entity {
	return &Entity{
		Name:      name,
		Relations: make(map[string]Relation),
		fieldSet:  make(map[string]struct{}),
	}
}
