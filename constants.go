// Package sssom implements the Simple Standard for Sharing Ontology
// Mappings (SSSOM): a tabular format for semantic mappings with a YAML
// metadata frontmatter. It provides the mapping data model, TSV I/O,
// linting, and the curation workflow; persistence and the HTTP surface
// live in the database and internal/api packages.
package sssom

// Columns lists every SSSOM mapping slot in canonical output order.
var Columns = []string{
	"record_id",
	"subject_id",
	"subject_label",
	"subject_category",
	"predicate_id",
	"predicate_label",
	"predicate_modifier",
	"predicate_type",
	"object_id",
	"object_label",
	"object_category",
	"mapping_justification",
	"author_id",
	"author_label",
	"reviewer_id",
	"reviewer_label",
	"creator_id",
	"creator_label",
	"license",
	"subject_type",
	"subject_source",
	"subject_source_version",
	"object_type",
	"object_source",
	"object_source_version",
	"mapping_provider",
	"mapping_source",
	"mapping_cardinality",
	"cardinality_scope",
	"mapping_tool",
	"mapping_tool_id",
	"mapping_tool_version",
	"mapping_date",
	"publication_date",
	"confidence",
	"curation_rule",
	"curation_rule_text",
	"subject_match_field",
	"object_match_field",
	"match_string",
	"subject_preprocessing",
	"object_preprocessing",
	"similarity_score",
	"similarity_measure",
	"issue_tracker_item",
	"see_also",
	"other",
	"comment",
}

// Multivalued holds the mapping slots that carry pipe-delimited lists.
// There is a unit test keeping this in sync with the Record field types.
var Multivalued = map[string]bool{
	"author_id":             true,
	"author_label":          true,
	"creator_id":            true,
	"creator_label":         true,
	"reviewer_id":           true,
	"reviewer_label":        true,
	"curation_rule":         true,
	"curation_rule_text":    true,
	"match_string":          true,
	"see_also":              true,
	"subject_match_field":   true,
	"object_match_field":    true,
	"subject_preprocessing": true,
	"object_preprocessing":  true,
	"cardinality_scope":     true,
}

// Propagatable holds the slots that may appear in the frontmatter and are
// propagated onto every mapping row that does not set them explicitly,
// following the slots annotated as propagated in the SSSOM schema.
// mapping_justification deliberately is not in this set.
var Propagatable = map[string]bool{
	"mapping_date":           true,
	"mapping_provider":       true,
	"mapping_tool":           true,
	"mapping_tool_id":        true,
	"mapping_tool_version":   true,
	"object_match_field":     true,
	"object_preprocessing":   true,
	"object_source":          true,
	"object_source_version":  true,
	"object_type":            true,
	"predicate_type":         true,
	"similarity_measure":     true,
	"subject_match_field":    true,
	"subject_preprocessing":  true,
	"subject_source":         true,
	"subject_source_version": true,
	"subject_type":           true,
}

// DefaultPrefixMap covers the vocabularies every SSSOM file may use
// without declaring them in its curie_map.
var DefaultPrefixMap = map[string]string{
	"skos":   "http://www.w3.org/2004/02/skos/core#",
	"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
	"owl":    "http://www.w3.org/2002/07/owl#",
	"orcid":  "https://orcid.org/",
	"sssom":  "https://w3id.org/sssom/",
	"semapv": "https://w3id.org/semapv/vocab/",
	// record references assigned by repositories (see HashV1)
	"sssom.mapping": "https://w3id.org/sssom/mapping/",
}

// CURIEMapKey is the frontmatter key holding the prefix map.
const CURIEMapKey = "curie_map"
