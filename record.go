package sssom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Record is one unprocessed row of an SSSOM TSV file. All slots are kept
// in their tabular representation: CURIEs as strings, multivalued slots as
// string slices, dates as YYYY-MM-DD. Use ToMapping to obtain the
// reference-typed form.
type Record struct {
	RecordID string

	SubjectID       string
	SubjectLabel    string
	SubjectCategory string

	PredicateID       string
	PredicateLabel    string
	PredicateModifier string
	PredicateType     string

	ObjectID       string
	ObjectLabel    string
	ObjectCategory string

	MappingJustification string

	AuthorID      []string
	AuthorLabel   []string
	ReviewerID    []string
	ReviewerLabel []string
	CreatorID     []string
	CreatorLabel  []string

	License string

	SubjectType          string
	SubjectSource        string
	SubjectSourceVersion string
	ObjectType           string
	ObjectSource         string
	ObjectSourceVersion  string

	MappingProvider    string
	MappingSource      string
	MappingCardinality string
	CardinalityScope   []string

	MappingTool        string
	MappingToolID      string
	MappingToolVersion string

	MappingDate     string
	PublicationDate string

	Confidence *float64

	CurationRule     []string
	CurationRuleText []string

	SubjectMatchField    []string
	ObjectMatchField     []string
	MatchString          []string
	SubjectPreprocessing []string
	ObjectPreprocessing  []string

	SimilarityScore   *float64
	SimilarityMeasure string

	IssueTrackerItem string
	SeeAlso          []string
	Other            string
	Comment          string
}

// ErrMissingRequired marks a row missing one of the four required slots.
var ErrMissingRequired = errors.New("sssom: missing required slot")

var cardinalities = map[string]bool{
	"1:1": true, "1:n": true, "n:1": true, "1:0": true, "0:1": true, "n:n": true,
}

// Validate checks required slots and enum-valued cells.
func (r *Record) Validate() error {
	for _, req := range []struct{ name, value string }{
		{"subject_id", r.SubjectID},
		{"predicate_id", r.PredicateID},
		{"object_id", r.ObjectID},
		{"mapping_justification", r.MappingJustification},
	} {
		if req.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingRequired, req.name)
		}
	}
	if r.PredicateModifier != "" && r.PredicateModifier != Not {
		return fmt.Errorf("sssom: invalid predicate_modifier %q", r.PredicateModifier)
	}
	if r.MappingCardinality != "" && !cardinalities[r.MappingCardinality] {
		return fmt.Errorf("sssom: invalid mapping_cardinality %q", r.MappingCardinality)
	}
	if r.MappingToolVersion != "" && r.MappingTool == "" && r.MappingToolID == "" {
		return errors.New("sssom: mapping_tool_version requires mapping_tool or mapping_tool_id")
	}
	return nil
}

// Cell renders the value for a column, with multivalued slots joined on
// the SSSOM list delimiter. Unset slots render as "".
func (r *Record) Cell(column string) string {
	switch column {
	case "record_id":
		return r.RecordID
	case "subject_id":
		return r.SubjectID
	case "subject_label":
		return r.SubjectLabel
	case "subject_category":
		return r.SubjectCategory
	case "predicate_id":
		return r.PredicateID
	case "predicate_label":
		return r.PredicateLabel
	case "predicate_modifier":
		return r.PredicateModifier
	case "predicate_type":
		return r.PredicateType
	case "object_id":
		return r.ObjectID
	case "object_label":
		return r.ObjectLabel
	case "object_category":
		return r.ObjectCategory
	case "mapping_justification":
		return r.MappingJustification
	case "author_id":
		return joinList(r.AuthorID)
	case "author_label":
		return joinList(r.AuthorLabel)
	case "reviewer_id":
		return joinList(r.ReviewerID)
	case "reviewer_label":
		return joinList(r.ReviewerLabel)
	case "creator_id":
		return joinList(r.CreatorID)
	case "creator_label":
		return joinList(r.CreatorLabel)
	case "license":
		return r.License
	case "subject_type":
		return r.SubjectType
	case "subject_source":
		return r.SubjectSource
	case "subject_source_version":
		return r.SubjectSourceVersion
	case "object_type":
		return r.ObjectType
	case "object_source":
		return r.ObjectSource
	case "object_source_version":
		return r.ObjectSourceVersion
	case "mapping_provider":
		return r.MappingProvider
	case "mapping_source":
		return r.MappingSource
	case "mapping_cardinality":
		return r.MappingCardinality
	case "cardinality_scope":
		return joinList(r.CardinalityScope)
	case "mapping_tool":
		return r.MappingTool
	case "mapping_tool_id":
		return r.MappingToolID
	case "mapping_tool_version":
		return r.MappingToolVersion
	case "mapping_date":
		return r.MappingDate
	case "publication_date":
		return r.PublicationDate
	case "confidence":
		return formatFloat(r.Confidence)
	case "curation_rule":
		return joinList(r.CurationRule)
	case "curation_rule_text":
		return joinList(r.CurationRuleText)
	case "subject_match_field":
		return joinList(r.SubjectMatchField)
	case "object_match_field":
		return joinList(r.ObjectMatchField)
	case "match_string":
		return joinList(r.MatchString)
	case "subject_preprocessing":
		return joinList(r.SubjectPreprocessing)
	case "object_preprocessing":
		return joinList(r.ObjectPreprocessing)
	case "similarity_score":
		return formatFloat(r.SimilarityScore)
	case "similarity_measure":
		return r.SimilarityMeasure
	case "issue_tracker_item":
		return r.IssueTrackerItem
	case "see_also":
		return joinList(r.SeeAlso)
	case "other":
		return r.Other
	case "comment":
		return r.Comment
	}
	return ""
}

// SetCell assigns a raw TSV cell to the named column, splitting
// multivalued slots and parsing numeric ones.
func (r *Record) SetCell(column, raw string) error {
	switch column {
	case "record_id":
		r.RecordID = raw
	case "subject_id":
		r.SubjectID = raw
	case "subject_label":
		r.SubjectLabel = raw
	case "subject_category":
		r.SubjectCategory = raw
	case "predicate_id":
		r.PredicateID = raw
	case "predicate_label":
		r.PredicateLabel = raw
	case "predicate_modifier":
		r.PredicateModifier = raw
	case "predicate_type":
		r.PredicateType = raw
	case "object_id":
		r.ObjectID = raw
	case "object_label":
		r.ObjectLabel = raw
	case "object_category":
		r.ObjectCategory = raw
	case "mapping_justification":
		r.MappingJustification = raw
	case "author_id":
		r.AuthorID = splitList(raw)
	case "author_label":
		r.AuthorLabel = splitList(raw)
	case "reviewer_id":
		r.ReviewerID = splitList(raw)
	case "reviewer_label":
		r.ReviewerLabel = splitList(raw)
	case "creator_id":
		r.CreatorID = splitList(raw)
	case "creator_label":
		r.CreatorLabel = splitList(raw)
	case "license":
		r.License = raw
	case "subject_type":
		r.SubjectType = raw
	case "subject_source":
		r.SubjectSource = raw
	case "subject_source_version":
		r.SubjectSourceVersion = raw
	case "object_type":
		r.ObjectType = raw
	case "object_source":
		r.ObjectSource = raw
	case "object_source_version":
		r.ObjectSourceVersion = raw
	case "mapping_provider":
		r.MappingProvider = raw
	case "mapping_source":
		r.MappingSource = raw
	case "mapping_cardinality":
		r.MappingCardinality = raw
	case "cardinality_scope":
		r.CardinalityScope = splitList(raw)
	case "mapping_tool":
		r.MappingTool = raw
	case "mapping_tool_id":
		r.MappingToolID = raw
	case "mapping_tool_version":
		r.MappingToolVersion = raw
	case "mapping_date":
		r.MappingDate = raw
	case "publication_date":
		r.PublicationDate = raw
	case "confidence":
		f, err := parseFloat(column, raw)
		if err != nil {
			return err
		}
		r.Confidence = f
	case "curation_rule":
		r.CurationRule = splitList(raw)
	case "curation_rule_text":
		r.CurationRuleText = splitList(raw)
	case "subject_match_field":
		r.SubjectMatchField = splitList(raw)
	case "object_match_field":
		r.ObjectMatchField = splitList(raw)
	case "match_string":
		r.MatchString = splitList(raw)
	case "subject_preprocessing":
		r.SubjectPreprocessing = splitList(raw)
	case "object_preprocessing":
		r.ObjectPreprocessing = splitList(raw)
	case "similarity_score":
		f, err := parseFloat(column, raw)
		if err != nil {
			return err
		}
		r.SimilarityScore = f
	case "similarity_measure":
		r.SimilarityMeasure = raw
	case "issue_tracker_item":
		r.IssueTrackerItem = raw
	case "see_also":
		r.SeeAlso = splitList(raw)
	case "other":
		r.Other = raw
	case "comment":
		r.Comment = raw
	default:
		return fmt.Errorf("sssom: unknown column %q", column)
	}
	return nil
}

// UsedColumns reports which of the given records set each canonical
// column, preserving canonical order.
func UsedColumns(records []Record) []string {
	used := make(map[string]bool)
	for i := range records {
		for _, column := range Columns {
			if records[i].Cell(column) != "" {
				used[column] = true
			}
		}
	}
	out := make([]string, 0, len(used))
	for _, column := range Columns {
		if used[column] {
			out = append(out, column)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, "|")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseFloat(column, raw string) (*float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("sssom: parse %s %q: %w", column, raw, err)
	}
	return &f, nil
}
