package sssom

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MappingSet models the YAML frontmatter of an SSSOM file: set-level
// metadata plus the curie_map. Propagatable slots declared here apply to
// every row that does not set them explicitly. Unknown keys are kept in
// Extra so that linting does not destroy third-party metadata.
type MappingSet struct {
	ID          string `yaml:"mapping_set_id,omitempty"`
	Title       string `yaml:"mapping_set_title,omitempty"`
	Description string `yaml:"mapping_set_description,omitempty"`
	Version     string `yaml:"mapping_set_version,omitempty"`
	License     string `yaml:"license,omitempty"`

	CURIEMap map[string]string `yaml:"curie_map,omitempty"`

	// propagatable slots
	MappingTool          string   `yaml:"mapping_tool,omitempty"`
	MappingToolID        string   `yaml:"mapping_tool_id,omitempty"`
	MappingToolVersion   string   `yaml:"mapping_tool_version,omitempty"`
	MappingDate          string   `yaml:"mapping_date,omitempty"`
	MappingProvider      string   `yaml:"mapping_provider,omitempty"`
	SimilarityMeasure    string   `yaml:"similarity_measure,omitempty"`
	SubjectSource        string   `yaml:"subject_source,omitempty"`
	SubjectSourceVersion string   `yaml:"subject_source_version,omitempty"`
	SubjectType          string   `yaml:"subject_type,omitempty"`
	ObjectSource         string   `yaml:"object_source,omitempty"`
	ObjectSourceVersion  string   `yaml:"object_source_version,omitempty"`
	ObjectType           string   `yaml:"object_type,omitempty"`
	PredicateType        string   `yaml:"predicate_type,omitempty"`
	SubjectMatchField    []string `yaml:"subject_match_field,omitempty"`
	ObjectMatchField     []string `yaml:"object_match_field,omitempty"`
	SubjectPreprocessing []string `yaml:"subject_preprocessing,omitempty"`
	ObjectPreprocessing  []string `yaml:"object_preprocessing,omitempty"`

	CreatorID []string `yaml:"creator_id,omitempty"`
	SeeAlso   []string `yaml:"see_also,omitempty"`
	Comment   string   `yaml:"comment,omitempty"`

	Extra map[string]any `yaml:"-"`
}

// mappingSetKnownKeys mirrors the yaml tags above; anything else read
// from a frontmatter lands in Extra.
var mappingSetKnownKeys = map[string]bool{
	"mapping_set_id": true, "mapping_set_title": true,
	"mapping_set_description": true, "mapping_set_version": true,
	"license": true, "curie_map": true,
	"mapping_tool": true, "mapping_tool_id": true, "mapping_tool_version": true,
	"mapping_date": true, "mapping_provider": true, "similarity_measure": true,
	"subject_source": true, "subject_source_version": true, "subject_type": true,
	"object_source": true, "object_source_version": true, "object_type": true,
	"predicate_type": true,
	"subject_match_field": true, "object_match_field": true,
	"subject_preprocessing": true, "object_preprocessing": true,
	"creator_id": true, "see_also": true, "comment": true,
}

// ParseMappingSet decodes a frontmatter YAML document.
func ParseMappingSet(doc []byte) (*MappingSet, error) {
	var ms MappingSet
	if err := yaml.Unmarshal(doc, &ms); err != nil {
		return nil, fmt.Errorf("sssom: parse frontmatter: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("sssom: parse frontmatter: %w", err)
	}
	for key, value := range raw {
		if !mappingSetKnownKeys[key] {
			if ms.Extra == nil {
				ms.Extra = make(map[string]any)
			}
			ms.Extra[key] = value
		}
	}
	return &ms, nil
}

// Propagated returns the propagatable slot values declared on the set,
// as raw TSV cells keyed by column name.
func (ms *MappingSet) Propagated() map[string]string {
	if ms == nil {
		return nil
	}
	out := make(map[string]string)
	put := func(column, value string) {
		if value != "" {
			out[column] = value
		}
	}
	put("mapping_tool", ms.MappingTool)
	put("mapping_tool_id", ms.MappingToolID)
	put("mapping_tool_version", ms.MappingToolVersion)
	put("mapping_date", ms.MappingDate)
	put("mapping_provider", ms.MappingProvider)
	put("similarity_measure", ms.SimilarityMeasure)
	put("subject_source", ms.SubjectSource)
	put("subject_source_version", ms.SubjectSourceVersion)
	put("subject_type", ms.SubjectType)
	put("object_source", ms.ObjectSource)
	put("object_source_version", ms.ObjectSourceVersion)
	put("object_type", ms.ObjectType)
	put("predicate_type", ms.PredicateType)
	put("subject_match_field", joinList(ms.SubjectMatchField))
	put("object_match_field", joinList(ms.ObjectMatchField))
	put("subject_preprocessing", joinList(ms.SubjectPreprocessing))
	put("object_preprocessing", joinList(ms.ObjectPreprocessing))
	return out
}

// SetPropagated assigns a propagatable column onto the set, the inverse
// of Propagated. Unknown columns are ignored.
func (ms *MappingSet) SetPropagated(column, value string) {
	switch column {
	case "mapping_tool":
		ms.MappingTool = value
	case "mapping_tool_id":
		ms.MappingToolID = value
	case "mapping_tool_version":
		ms.MappingToolVersion = value
	case "mapping_date":
		ms.MappingDate = value
	case "mapping_provider":
		ms.MappingProvider = value
	case "similarity_measure":
		ms.SimilarityMeasure = value
	case "subject_source":
		ms.SubjectSource = value
	case "subject_source_version":
		ms.SubjectSourceVersion = value
	case "subject_type":
		ms.SubjectType = value
	case "object_source":
		ms.ObjectSource = value
	case "object_source_version":
		ms.ObjectSourceVersion = value
	case "object_type":
		ms.ObjectType = value
	case "predicate_type":
		ms.PredicateType = value
	case "subject_match_field":
		ms.SubjectMatchField = splitList(value)
	case "object_match_field":
		ms.ObjectMatchField = splitList(value)
	case "subject_preprocessing":
		ms.SubjectPreprocessing = splitList(value)
	case "object_preprocessing":
		ms.ObjectPreprocessing = splitList(value)
	}
}

// Clone returns a deep copy.
func (ms *MappingSet) Clone() *MappingSet {
	if ms == nil {
		return nil
	}
	out := *ms
	if ms.CURIEMap != nil {
		out.CURIEMap = make(map[string]string, len(ms.CURIEMap))
		for k, v := range ms.CURIEMap {
			out.CURIEMap[k] = v
		}
	}
	out.SubjectMatchField = append([]string(nil), ms.SubjectMatchField...)
	out.ObjectMatchField = append([]string(nil), ms.ObjectMatchField...)
	out.SubjectPreprocessing = append([]string(nil), ms.SubjectPreprocessing...)
	out.ObjectPreprocessing = append([]string(nil), ms.ObjectPreprocessing...)
	out.CreatorID = append([]string(nil), ms.CreatorID...)
	out.SeeAlso = append([]string(nil), ms.SeeAlso...)
	if ms.Extra != nil {
		out.Extra = make(map[string]any, len(ms.Extra))
		for k, v := range ms.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// asMap flattens the set (including Extra) for YAML encoding, which
// sorts keys and therefore gives a deterministic frontmatter.
func (ms *MappingSet) asMap() (map[string]any, error) {
	data, err := yaml.Marshal(ms)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for key, value := range ms.Extra {
		out[key] = value
	}
	return out, nil
}
