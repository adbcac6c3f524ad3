// Package curie implements compact URI (CURIE) references and prefix map
// based conversion between CURIEs and URIs, as used throughout the SSSOM
// tabular format.
package curie

import (
	"fmt"
	"sort"
	"strings"
)

// Reference is a compact identifier of the form prefix:identifier. The
// optional Name carries a human-readable label; it is an annotation and
// does not participate in identity.
type Reference struct {
	Prefix     string `json:"prefix"`
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
}

// NewReference constructs an unlabeled reference.
func NewReference(prefix, identifier string) Reference {
	return Reference{Prefix: prefix, Identifier: identifier}
}

// NewNamedReference constructs a labeled reference.
func NewNamedReference(prefix, identifier, name string) Reference {
	return Reference{Prefix: prefix, Identifier: identifier, Name: name}
}

// ParseReference splits a CURIE string on the first colon.
func ParseReference(curie string) (Reference, error) {
	prefix, identifier, ok := strings.Cut(curie, ":")
	if !ok {
		return Reference{}, fmt.Errorf("curie: %q is not a CURIE (missing colon)", curie)
	}
	if prefix == "" {
		return Reference{}, fmt.Errorf("curie: %q has an empty prefix", curie)
	}
	return Reference{Prefix: prefix, Identifier: identifier}, nil
}

// MustParse is ParseReference for statically known CURIEs.
func MustParse(curie string) Reference {
	r, err := ParseReference(curie)
	if err != nil {
		panic(err)
	}
	return r
}

// CURIE renders the reference as prefix:identifier.
func (r Reference) CURIE() string {
	return r.Prefix + ":" + r.Identifier
}

// IsZero reports whether the reference is unset.
func (r Reference) IsZero() bool {
	return r.Prefix == "" && r.Identifier == ""
}

// Same reports identity equality, ignoring the name annotation.
func (r Reference) Same(other Reference) bool {
	return r.Prefix == other.Prefix && r.Identifier == other.Identifier
}

// Named returns a copy of the reference carrying the given name. An empty
// name leaves the reference unchanged.
func (r Reference) Named(name string) Reference {
	if name != "" {
		r.Name = name
	}
	return r
}

func (r Reference) String() string {
	return r.CURIE()
}

// record stores a single prefix with its URI expansion and synonyms.
type record struct {
	prefix    string
	uriPrefix string
	synonyms  []string
}

// Converter translates between CURIEs and URIs based on a prefix map, and
// standardizes non-canonical prefixes (case variants and synonyms) onto
// their canonical form.
type Converter struct {
	records []record
	// lowercased prefix or synonym -> canonical prefix
	canonical map[string]string
	// canonical prefix -> uri prefix
	expansion map[string]string
}

// Record describes one prefix for NewConverter.
type Record struct {
	Prefix    string
	URIPrefix string
	Synonyms  []string
}

// NewConverter builds a converter from explicit records. Later records do
// not override earlier ones.
func NewConverter(records []Record) *Converter {
	c := &Converter{
		canonical: make(map[string]string),
		expansion: make(map[string]string),
	}
	for _, r := range records {
		c.add(record{prefix: r.Prefix, uriPrefix: r.URIPrefix, synonyms: r.Synonyms})
	}
	return c
}

// FromPrefixMap builds a converter from a prefix -> URI prefix map.
func FromPrefixMap(prefixMap map[string]string) *Converter {
	prefixes := make([]string, 0, len(prefixMap))
	for prefix := range prefixMap {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	records := make([]Record, 0, len(prefixes))
	for _, prefix := range prefixes {
		records = append(records, Record{Prefix: prefix, URIPrefix: prefixMap[prefix]})
	}
	return NewConverter(records)
}

func (c *Converter) add(r record) {
	key := strings.ToLower(r.prefix)
	if _, exists := c.canonical[key]; exists {
		return
	}
	c.records = append(c.records, r)
	c.canonical[key] = r.prefix
	c.expansion[r.prefix] = r.uriPrefix
	for _, synonym := range r.synonyms {
		sk := strings.ToLower(synonym)
		if _, exists := c.canonical[sk]; !exists {
			c.canonical[sk] = r.prefix
		}
	}
}

// Chain merges converters; the first converter wins on prefix conflicts.
func Chain(converters ...*Converter) *Converter {
	out := &Converter{
		canonical: make(map[string]string),
		expansion: make(map[string]string),
	}
	for _, c := range converters {
		if c == nil {
			continue
		}
		for _, r := range c.records {
			out.add(r)
		}
	}
	return out
}

// StandardizePrefix maps a prefix, prefix synonym, or case variant onto
// the canonical prefix. The second return is false for unknown prefixes.
func (c *Converter) StandardizePrefix(prefix string) (string, bool) {
	canonical, ok := c.canonical[strings.ToLower(prefix)]
	return canonical, ok
}

// StandardizeReference canonicalizes the prefix of a reference. Unknown
// prefixes produce an error so that typos do not pass silently.
func (c *Converter) StandardizeReference(r Reference) (Reference, error) {
	canonical, ok := c.StandardizePrefix(r.Prefix)
	if !ok {
		return Reference{}, fmt.Errorf("curie: unknown prefix %q in %s", r.Prefix, r.CURIE())
	}
	r.Prefix = canonical
	return r, nil
}

// ParseCURIE parses and standardizes a CURIE string in one step.
func (c *Converter) ParseCURIE(curie string) (Reference, error) {
	r, err := ParseReference(curie)
	if err != nil {
		return Reference{}, err
	}
	return c.StandardizeReference(r)
}

// ExpandReference converts a reference into a URI, or "" for unknown
// prefixes.
func (c *Converter) ExpandReference(r Reference) string {
	canonical, ok := c.StandardizePrefix(r.Prefix)
	if !ok {
		return ""
	}
	uriPrefix, ok := c.expansion[canonical]
	if !ok {
		return ""
	}
	return uriPrefix + r.Identifier
}

// CompressURI converts a URI into a reference by longest URI prefix match.
func (c *Converter) CompressURI(uri string) (Reference, bool) {
	best := Reference{}
	bestLen := -1
	for _, r := range c.records {
		if r.uriPrefix == "" || !strings.HasPrefix(uri, r.uriPrefix) {
			continue
		}
		if len(r.uriPrefix) > bestLen {
			best = Reference{Prefix: r.prefix, Identifier: uri[len(r.uriPrefix):]}
			bestLen = len(r.uriPrefix)
		}
	}
	return best, bestLen >= 0
}

// Bimap returns the canonical prefix -> URI prefix map.
func (c *Converter) Bimap() map[string]string {
	out := make(map[string]string, len(c.records))
	for _, r := range c.records {
		out[r.prefix] = r.uriPrefix
	}
	return out
}

// Prefixes returns the canonical prefixes in sorted order.
func (c *Converter) Prefixes() []string {
	out := make([]string, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.prefix)
	}
	sort.Strings(out)
	return out
}
