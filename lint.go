package sssom

import (
	"sort"

	"github.com/cthoyt/sssom-go/curie"
)

// LintOptions tunes Lint.
type LintOptions struct {
	// Exclude drops mappings matching any of the given
	// subject/predicate/object triples.
	Exclude []Mapping
	// DropDuplicates collapses mappings sharing a subject and object,
	// keeping the ones with the most preferred predicate.
	DropDuplicates bool
	// ExcludeColumns are dropped from the rewritten file.
	ExcludeColumns []string
}

// predicateRank orders match predicates from most to least specific, used
// when collapsing duplicate subject/object pairs.
var predicateRank = map[string]int{
	curie.ExactMatch.CURIE():   0,
	curie.CloseMatch.CURIE():   1,
	curie.BroadMatch.CURIE():   2,
	curie.NarrowMatch.CURIE():  3,
	curie.RelatedMatch.CURIE(): 4,
	curie.HasDbXref.CURIE():    5,
}

// Lint rewrites an SSSOM file in place into canonical form: rows sorted,
// propagatable columns with a constant value condensed into the
// frontmatter, the curie_map pruned and sorted, and the header written
// deterministically. Linting an already linted file is a no-op.
func Lint(path string, opts *LintOptions) error {
	if opts == nil {
		opts = &LintOptions{}
	}

	mappings, conv, ms, err := Read(path, nil)
	if err != nil {
		return err
	}

	if len(opts.Exclude) > 0 {
		mappings = ExcludeTriples(mappings, opts.Exclude)
	}
	if opts.DropDuplicates {
		mappings = dropDuplicates(mappings)
	}
	SortMappings(mappings)

	prefixes := make(map[string]bool)
	records := make([]Record, len(mappings))
	for i := range mappings {
		records[i] = mappings[i].ToRecord()
		for prefix := range mappings[i].Prefixes() {
			prefixes[prefix] = true
		}
	}
	condense(records, ms)

	return writeRecords(records, path, &WriteOptions{
		Metadata:       ms,
		Converter:      conv,
		ExcludeColumns: opts.ExcludeColumns,
	}, prefixes)
}

// SortMappings orders mappings by subject, predicate, object, and
// justification CURIEs.
func SortMappings(mappings []Mapping) {
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := &mappings[i], &mappings[j]
		if x, y := a.Subject.CURIE(), b.Subject.CURIE(); x != y {
			return x < y
		}
		if x, y := a.Predicate.CURIE(), b.Predicate.CURIE(); x != y {
			return x < y
		}
		if x, y := a.Object.CURIE(), b.Object.CURIE(); x != y {
			return x < y
		}
		return a.Justification.CURIE() < b.Justification.CURIE()
	})
}

// ExcludeTriples filters out mappings whose subject/predicate/object
// triple appears in the exclusion list.
func ExcludeTriples(mappings, exclude []Mapping) []Mapping {
	excluded := make(map[string]bool, len(exclude))
	for _, m := range exclude {
		excluded[m.Triple()] = true
	}
	out := mappings[:0]
	for _, m := range mappings {
		if !excluded[m.Triple()] {
			out = append(out, m)
		}
	}
	return out
}

// dropDuplicates collapses mappings that share a subject and object onto
// the best-ranked predicate, then removes exact triple duplicates.
func dropDuplicates(mappings []Mapping) []Mapping {
	best := make(map[string]int)
	for _, m := range mappings {
		key := m.Subject.CURIE() + "\t" + m.Object.CURIE()
		rank := predicateRankOf(m)
		if have, ok := best[key]; !ok || rank < have {
			best[key] = rank
		}
	}
	seen := make(map[string]bool)
	out := mappings[:0]
	for _, m := range mappings {
		key := m.Subject.CURIE() + "\t" + m.Object.CURIE()
		if predicateRankOf(m) > best[key] {
			continue
		}
		triple := m.Triple()
		if seen[triple] {
			continue
		}
		seen[triple] = true
		out = append(out, m)
	}
	return out
}

func predicateRankOf(m Mapping) int {
	if rank, ok := predicateRank[m.Predicate.CURIE()]; ok {
		return rank
	}
	return len(predicateRank)
}

// condense moves propagatable columns holding the same non-empty value in
// every row into the set-level metadata, clearing the per-row cells.
func condense(records []Record, ms *MappingSet) {
	if len(records) == 0 {
		return
	}
	for column := range Propagatable {
		value := records[0].Cell(column)
		if value == "" {
			continue
		}
		constant := true
		for i := 1; i < len(records); i++ {
			if records[i].Cell(column) != value {
				constant = false
				break
			}
		}
		if !constant {
			continue
		}
		ms.SetPropagated(column, value)
		for i := range records {
			_ = records[i].SetCell(column, "")
		}
	}
}
