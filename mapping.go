package sssom

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cthoyt/sssom-go/curie"
)

// Not is the only allowed predicate modifier: it negates the predicate,
// turning a mapping into an explicit non-match.
const Not = "Not"

// MappingTool describes the software that produced a predicted mapping.
// At least one of Reference or Name must be set when a version is given.
type MappingTool struct {
	Reference *curie.Reference `json:"reference,omitempty"`
	Name      string           `json:"name,omitempty"`
	Version   string           `json:"version,omitempty"`
}

// Mapping is a processed semantic mapping: the reference-typed form of a
// Record row. Optional slots are pointers or zero values.
type Mapping struct {
	Subject       curie.Reference `json:"subject"`
	Predicate     curie.Reference `json:"predicate"`
	Object        curie.Reference `json:"object"`
	Justification curie.Reference `json:"justification"`

	// Record identifies the mapping itself, normally a content hash
	// assigned by a repository. See HashV1.
	Record *curie.Reference `json:"record,omitempty"`

	PredicateModifier string           `json:"predicate_modifier,omitempty"`
	PredicateType     *curie.Reference `json:"predicate_type,omitempty"`

	SubjectCategory string `json:"subject_category,omitempty"`
	ObjectCategory  string `json:"object_category,omitempty"`

	SubjectType          *curie.Reference `json:"subject_type,omitempty"`
	ObjectType           *curie.Reference `json:"object_type,omitempty"`
	SubjectSource        *curie.Reference `json:"subject_source,omitempty"`
	ObjectSource         *curie.Reference `json:"object_source,omitempty"`
	SubjectSourceVersion string           `json:"subject_source_version,omitempty"`
	ObjectSourceVersion  string           `json:"object_source_version,omitempty"`

	Authors   []curie.Reference `json:"authors,omitempty"`
	Creators  []curie.Reference `json:"creators,omitempty"`
	Reviewers []curie.Reference `json:"reviewers,omitempty"`

	Confidence *float64     `json:"confidence,omitempty"`
	Tool       *MappingTool `json:"mapping_tool,omitempty"`
	License    string       `json:"license,omitempty"`

	Cardinality      string   `json:"cardinality,omitempty"`
	CardinalityScope []string `json:"cardinality_scope,omitempty"`

	Provider string           `json:"provider,omitempty"`
	Source   *curie.Reference `json:"source,omitempty"`

	MappingDate     *Date `json:"mapping_date,omitempty"`
	PublicationDate *Date `json:"publication_date,omitempty"`

	SubjectMatchField    []curie.Reference `json:"subject_match_field,omitempty"`
	ObjectMatchField     []curie.Reference `json:"object_match_field,omitempty"`
	SubjectPreprocessing []curie.Reference `json:"subject_preprocessing,omitempty"`
	ObjectPreprocessing  []curie.Reference `json:"object_preprocessing,omitempty"`
	MatchString          []string          `json:"match_string,omitempty"`

	CurationRule     []curie.Reference `json:"curation_rule,omitempty"`
	CurationRuleText []string          `json:"curation_rule_text,omitempty"`
	IssueTrackerItem *curie.Reference  `json:"issue_tracker_item,omitempty"`

	SimilarityMeasure string   `json:"similarity_measure,omitempty"`
	SimilarityScore   *float64 `json:"similarity_score,omitempty"`

	SeeAlso []string          `json:"see_also,omitempty"`
	Other   map[string]string `json:"other,omitempty"`
	Comment string            `json:"comment,omitempty"`
}

// Triple renders the subject/predicate/object identity of the mapping,
// used for exclusion lists and duplicate detection.
func (m Mapping) Triple() string {
	return m.Subject.CURIE() + "\t" + m.Predicate.CURIE() + "\t" + m.Object.CURIE()
}

// ToRecord converts the mapping back into its tabular form.
func (m Mapping) ToRecord() Record {
	r := Record{
		SubjectID:            m.Subject.CURIE(),
		SubjectLabel:         m.Subject.Name,
		SubjectCategory:      m.SubjectCategory,
		PredicateID:          m.Predicate.CURIE(),
		PredicateLabel:       m.Predicate.Name,
		PredicateModifier:    m.PredicateModifier,
		ObjectID:             m.Object.CURIE(),
		ObjectLabel:          m.Object.Name,
		ObjectCategory:       m.ObjectCategory,
		MappingJustification: m.Justification.CURIE(),
		License:              m.License,
		SubjectSourceVersion: m.SubjectSourceVersion,
		ObjectSourceVersion:  m.ObjectSourceVersion,
		MappingProvider:      m.Provider,
		MappingCardinality:   m.Cardinality,
		CardinalityScope:     append([]string(nil), m.CardinalityScope...),
		Confidence:           m.Confidence,
		CurationRuleText:     append([]string(nil), m.CurationRuleText...),
		MatchString:          append([]string(nil), m.MatchString...),
		SimilarityScore:      m.SimilarityScore,
		SimilarityMeasure:    m.SimilarityMeasure,
		SeeAlso:              append([]string(nil), m.SeeAlso...),
		Other:                encodeOther(m.Other),
		Comment:              m.Comment,
	}
	if m.Record != nil {
		r.RecordID = m.Record.CURIE()
	}
	if m.PredicateType != nil {
		r.PredicateType = m.PredicateType.CURIE()
	}
	if m.SubjectType != nil {
		r.SubjectType = m.SubjectType.CURIE()
	}
	if m.ObjectType != nil {
		r.ObjectType = m.ObjectType.CURIE()
	}
	if m.SubjectSource != nil {
		r.SubjectSource = m.SubjectSource.CURIE()
	}
	if m.ObjectSource != nil {
		r.ObjectSource = m.ObjectSource.CURIE()
	}
	if m.Source != nil {
		r.MappingSource = m.Source.CURIE()
	}
	if m.IssueTrackerItem != nil {
		r.IssueTrackerItem = m.IssueTrackerItem.CURIE()
	}
	if m.Tool != nil {
		r.MappingTool = m.Tool.Name
		r.MappingToolVersion = m.Tool.Version
		if m.Tool.Reference != nil {
			r.MappingToolID = m.Tool.Reference.CURIE()
		}
	}
	if m.MappingDate != nil {
		r.MappingDate = m.MappingDate.String()
	}
	if m.PublicationDate != nil {
		r.PublicationDate = m.PublicationDate.String()
	}
	r.AuthorID, r.AuthorLabel = referencesToCells(m.Authors)
	r.ReviewerID, r.ReviewerLabel = referencesToCells(m.Reviewers)
	r.CreatorID, r.CreatorLabel = referencesToCells(m.Creators)
	r.CurationRule = curiesOf(m.CurationRule)
	r.SubjectMatchField = curiesOf(m.SubjectMatchField)
	r.ObjectMatchField = curiesOf(m.ObjectMatchField)
	r.SubjectPreprocessing = curiesOf(m.SubjectPreprocessing)
	r.ObjectPreprocessing = curiesOf(m.ObjectPreprocessing)
	return r
}

// ToMapping parses the record into a mapping, standardizing every
// reference through the converter.
func (r *Record) ToMapping(conv *curie.Converter) (Mapping, error) {
	if err := r.Validate(); err != nil {
		return Mapping{}, err
	}

	subject, err := conv.ParseCURIE(r.SubjectID)
	if err != nil {
		return Mapping{}, fmt.Errorf("subject_id: %w", err)
	}
	predicate, err := conv.ParseCURIE(r.PredicateID)
	if err != nil {
		return Mapping{}, fmt.Errorf("predicate_id: %w", err)
	}
	object, err := conv.ParseCURIE(r.ObjectID)
	if err != nil {
		return Mapping{}, fmt.Errorf("object_id: %w", err)
	}
	justification, err := conv.ParseCURIE(r.MappingJustification)
	if err != nil {
		return Mapping{}, fmt.Errorf("mapping_justification: %w", err)
	}

	m := Mapping{
		Subject:              subject.Named(r.SubjectLabel),
		Predicate:            predicate.Named(r.PredicateLabel),
		Object:               object.Named(r.ObjectLabel),
		Justification:        justification,
		PredicateModifier:    r.PredicateModifier,
		SubjectCategory:      r.SubjectCategory,
		ObjectCategory:       r.ObjectCategory,
		SubjectSourceVersion: r.SubjectSourceVersion,
		ObjectSourceVersion:  r.ObjectSourceVersion,
		License:              r.License,
		Cardinality:          r.MappingCardinality,
		CardinalityScope:     append([]string(nil), r.CardinalityScope...),
		Provider:             r.MappingProvider,
		Confidence:           r.Confidence,
		CurationRuleText:     append([]string(nil), r.CurationRuleText...),
		MatchString:          append([]string(nil), r.MatchString...),
		SimilarityMeasure:    r.SimilarityMeasure,
		SimilarityScore:      r.SimilarityScore,
		SeeAlso:              append([]string(nil), r.SeeAlso...),
		Other:                decodeOther(r.Other),
		Comment:              r.Comment,
	}

	for _, ref := range []struct {
		raw    string
		target **curie.Reference
		column string
	}{
		{r.RecordID, &m.Record, "record_id"},
		{r.PredicateType, &m.PredicateType, "predicate_type"},
		{r.SubjectType, &m.SubjectType, "subject_type"},
		{r.ObjectType, &m.ObjectType, "object_type"},
		{r.SubjectSource, &m.SubjectSource, "subject_source"},
		{r.ObjectSource, &m.ObjectSource, "object_source"},
		{r.MappingSource, &m.Source, "mapping_source"},
		{r.IssueTrackerItem, &m.IssueTrackerItem, "issue_tracker_item"},
	} {
		if ref.raw == "" {
			continue
		}
		parsed, err := conv.ParseCURIE(ref.raw)
		if err != nil {
			return Mapping{}, fmt.Errorf("%s: %w", ref.column, err)
		}
		*ref.target = &parsed
	}

	if m.Authors, err = cellsToReferences(conv, r.AuthorID, r.AuthorLabel); err != nil {
		return Mapping{}, fmt.Errorf("author_id: %w", err)
	}
	if m.Reviewers, err = cellsToReferences(conv, r.ReviewerID, r.ReviewerLabel); err != nil {
		return Mapping{}, fmt.Errorf("reviewer_id: %w", err)
	}
	if m.Creators, err = cellsToReferences(conv, r.CreatorID, r.CreatorLabel); err != nil {
		return Mapping{}, fmt.Errorf("creator_id: %w", err)
	}
	if m.CurationRule, err = cellsToReferences(conv, r.CurationRule, nil); err != nil {
		return Mapping{}, fmt.Errorf("curation_rule: %w", err)
	}
	if m.SubjectMatchField, err = cellsToReferences(conv, r.SubjectMatchField, nil); err != nil {
		return Mapping{}, fmt.Errorf("subject_match_field: %w", err)
	}
	if m.ObjectMatchField, err = cellsToReferences(conv, r.ObjectMatchField, nil); err != nil {
		return Mapping{}, fmt.Errorf("object_match_field: %w", err)
	}
	if m.SubjectPreprocessing, err = cellsToReferences(conv, r.SubjectPreprocessing, nil); err != nil {
		return Mapping{}, fmt.Errorf("subject_preprocessing: %w", err)
	}
	if m.ObjectPreprocessing, err = cellsToReferences(conv, r.ObjectPreprocessing, nil); err != nil {
		return Mapping{}, fmt.Errorf("object_preprocessing: %w", err)
	}

	if r.MappingTool != "" || r.MappingToolID != "" {
		tool := &MappingTool{Name: r.MappingTool, Version: r.MappingToolVersion}
		if r.MappingToolID != "" {
			ref, err := conv.ParseCURIE(r.MappingToolID)
			if err != nil {
				return Mapping{}, fmt.Errorf("mapping_tool_id: %w", err)
			}
			tool.Reference = &ref
		}
		m.Tool = tool
	} else if r.MappingToolVersion != "" {
		return Mapping{}, errors.New("sssom: mapping_tool_version requires mapping_tool or mapping_tool_id")
	}

	if r.MappingDate != "" {
		d, err := ParseDate(r.MappingDate)
		if err != nil {
			return Mapping{}, fmt.Errorf("mapping_date: %w", err)
		}
		m.MappingDate = &d
	}
	if r.PublicationDate != "" {
		d, err := ParseDate(r.PublicationDate)
		if err != nil {
			return Mapping{}, fmt.Errorf("publication_date: %w", err)
		}
		m.PublicationDate = &d
	}

	return m, nil
}

// Standardize canonicalizes every reference prefix in the mapping.
func (m Mapping) Standardize(conv *curie.Converter) (Mapping, error) {
	var err error
	std := func(r curie.Reference) curie.Reference {
		if err != nil {
			return r
		}
		var out curie.Reference
		out, err = conv.StandardizeReference(r)
		if err != nil {
			return r
		}
		return out
	}
	stdPtr := func(r *curie.Reference) *curie.Reference {
		if r == nil {
			return nil
		}
		out := std(*r)
		return &out
	}
	stdList := func(refs []curie.Reference) []curie.Reference {
		if refs == nil {
			return nil
		}
		out := make([]curie.Reference, len(refs))
		for i, r := range refs {
			out[i] = std(r)
		}
		return out
	}

	m.Subject = std(m.Subject)
	m.Predicate = std(m.Predicate)
	m.Object = std(m.Object)
	m.Justification = std(m.Justification)
	m.Record = stdPtr(m.Record)
	m.PredicateType = stdPtr(m.PredicateType)
	m.SubjectType = stdPtr(m.SubjectType)
	m.ObjectType = stdPtr(m.ObjectType)
	m.SubjectSource = stdPtr(m.SubjectSource)
	m.ObjectSource = stdPtr(m.ObjectSource)
	m.Source = stdPtr(m.Source)
	m.IssueTrackerItem = stdPtr(m.IssueTrackerItem)
	m.Authors = stdList(m.Authors)
	m.Creators = stdList(m.Creators)
	m.Reviewers = stdList(m.Reviewers)
	m.CurationRule = stdList(m.CurationRule)
	m.SubjectMatchField = stdList(m.SubjectMatchField)
	m.ObjectMatchField = stdList(m.ObjectMatchField)
	m.SubjectPreprocessing = stdList(m.SubjectPreprocessing)
	m.ObjectPreprocessing = stdList(m.ObjectPreprocessing)
	if m.Tool != nil {
		tool := *m.Tool
		tool.Reference = stdPtr(tool.Reference)
		m.Tool = &tool
	}
	if err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// Prefixes returns every prefix used by the mapping's references.
func (m Mapping) Prefixes() map[string]bool {
	out := make(map[string]bool)
	add := func(r *curie.Reference) {
		if r != nil && r.Prefix != "" {
			out[r.Prefix] = true
		}
	}
	addAll := func(refs []curie.Reference) {
		for i := range refs {
			add(&refs[i])
		}
	}
	add(&m.Subject)
	add(&m.Predicate)
	add(&m.Object)
	add(&m.Justification)
	add(m.Record)
	add(m.PredicateType)
	add(m.SubjectType)
	add(m.ObjectType)
	add(m.SubjectSource)
	add(m.ObjectSource)
	add(m.Source)
	add(m.IssueTrackerItem)
	addAll(m.Authors)
	addAll(m.Creators)
	addAll(m.Reviewers)
	addAll(m.CurationRule)
	addAll(m.SubjectMatchField)
	addAll(m.ObjectMatchField)
	addAll(m.SubjectPreprocessing)
	addAll(m.ObjectPreprocessing)
	if m.Tool != nil {
		add(m.Tool.Reference)
	}
	return out
}

func referencesToCells(refs []curie.Reference) (ids, labels []string) {
	if len(refs) == 0 {
		return nil, nil
	}
	ids = make([]string, len(refs))
	labeled := false
	labels = make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.CURIE()
		labels[i] = r.Name
		if r.Name != "" {
			labeled = true
		}
	}
	if !labeled {
		labels = nil
	}
	return ids, labels
}

func cellsToReferences(conv *curie.Converter, ids, labels []string) ([]curie.Reference, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]curie.Reference, len(ids))
	for i, id := range ids {
		ref, err := conv.ParseCURIE(id)
		if err != nil {
			return nil, err
		}
		// labels are positional and independent from the id list; only
		// zip them when the lengths line up
		if len(labels) == len(ids) {
			ref = ref.Named(labels[i])
		}
		out[i] = ref
	}
	return out, nil
}

func curiesOf(refs []curie.Reference) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.CURIE()
	}
	return out
}

// encodeOther renders the free-form extension map as k=v pairs joined on
// the list delimiter, keeping the TSV single-line.
func encodeOther(other map[string]string) string {
	if len(other) == 0 {
		return ""
	}
	keys := make([]string, 0, len(other))
	for k := range other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + other[k]
	}
	return strings.Join(pairs, "|")
}

func decodeOther(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, "|") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
