package sssom

import (
	"strings"

	"github.com/cthoyt/sssom-go/curie"
)

// Query selects mappings. Zero-valued fields do not constrain; set fields
// are combined conjunctively. Text matches are case-insensitive
// substrings over both the CURIE and the label.
type Query struct {
	// Query matches either the subject or the object.
	Query string `json:"query,omitempty"`

	SubjectQuery  string `json:"subject_query,omitempty"`
	SubjectPrefix string `json:"subject_prefix,omitempty"`
	ObjectQuery   string `json:"object_query,omitempty"`
	ObjectPrefix  string `json:"object_prefix,omitempty"`

	// Prefix matches the subject or object prefix.
	Prefix string `json:"prefix,omitempty"`

	// MappingTool matches the tool name or tool reference.
	MappingTool string `json:"mapping_tool,omitempty"`

	// SameText selects exact matches whose subject and object carry the
	// same label, ignoring case. These are candidates for lexical review.
	SameText bool `json:"same_text,omitempty"`
}

// IsZero reports whether the query has no constraints.
func (q Query) IsZero() bool {
	return q == Query{}
}

// Matches reports whether the mapping satisfies every set constraint.
func (q Query) Matches(m Mapping) bool {
	if q.Query != "" && !referenceMatches(m.Subject, q.Query) && !referenceMatches(m.Object, q.Query) {
		return false
	}
	if q.SubjectQuery != "" && !referenceMatches(m.Subject, q.SubjectQuery) {
		return false
	}
	if q.ObjectQuery != "" && !referenceMatches(m.Object, q.ObjectQuery) {
		return false
	}
	if q.SubjectPrefix != "" && !strings.EqualFold(m.Subject.Prefix, q.SubjectPrefix) {
		return false
	}
	if q.ObjectPrefix != "" && !strings.EqualFold(m.Object.Prefix, q.ObjectPrefix) {
		return false
	}
	if q.Prefix != "" &&
		!strings.EqualFold(m.Subject.Prefix, q.Prefix) &&
		!strings.EqualFold(m.Object.Prefix, q.Prefix) {
		return false
	}
	if q.MappingTool != "" && !toolMatches(m.Tool, q.MappingTool) {
		return false
	}
	if q.SameText && !sameText(m) {
		return false
	}
	return true
}

// Filter returns the mappings satisfying the query, preserving order.
func Filter(mappings []Mapping, q Query) []Mapping {
	if q.IsZero() {
		return mappings
	}
	var out []Mapping
	for _, m := range mappings {
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

func referenceMatches(r curie.Reference, needle string) bool {
	return containsFold(r.CURIE(), needle) || containsFold(r.Name, needle)
}

func toolMatches(tool *MappingTool, needle string) bool {
	if tool == nil {
		return false
	}
	if containsFold(tool.Name, needle) {
		return true
	}
	return tool.Reference != nil && containsFold(tool.Reference.CURIE(), needle)
}

func sameText(m Mapping) bool {
	return m.Subject.Name != "" &&
		strings.EqualFold(m.Subject.Name, m.Object.Name) &&
		m.Predicate.Same(curie.ExactMatch)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
