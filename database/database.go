// Package database stores semantic mappings under content-derived record
// references and drives the curation workflow over them. Two backends are
// provided: an in-memory store for tests and ephemeral sessions, and a
// SQLite store for persistent curation.
package database

import (
	"context"
	"errors"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
)

// ErrNotFound reports a record reference absent from the repository.
var ErrNotFound = errors.New("database: mapping not found")

// Repository stores mappings keyed by their record reference. Adding a
// mapping assigns the reference from a content hash, so semantically
// identical mappings collapse onto one record and any change to a mapping
// yields a new reference.
type Repository interface {
	// Add stores the mapping and returns its record reference. Adding an
	// already stored mapping is a no-op returning the existing reference.
	Add(ctx context.Context, m sssom.Mapping) (curie.Reference, error)
	// Get returns the mapping for a record reference.
	Get(ctx context.Context, ref curie.Reference) (sssom.Mapping, error)
	// Delete removes a record. Deleting an absent record returns
	// ErrNotFound.
	Delete(ctx context.Context, ref curie.Reference) error
	// List returns mappings satisfying every clause, ordered by record
	// reference.
	List(ctx context.Context, clauses ...Clause) ([]sssom.Mapping, error)
	// Count returns the number of stored mappings.
	Count(ctx context.Context) (int, error)

	// Curate applies a mark to a stored mapping, stores the curated
	// result, removes the original, and returns the new reference.
	Curate(ctx context.Context, ref curie.Reference, mark sssom.Mark, authors []curie.Reference) (curie.Reference, error)
	// Publish stamps the publication date on a stored mapping, storing
	// the result under its new reference and removing the original.
	Publish(ctx context.Context, ref curie.Reference, date *sssom.Date) (curie.Reference, error)

	Close() error
}

// Clause is a filter over stored mappings. Match is the authoritative
// predicate. Where optionally restates the clause as a SQL condition over
// the mappings table so the SQLite backend can narrow rows before
// decoding; a Where condition must select at least every mapping Match
// accepts, since Match is re-applied to each decoded row.
type Clause struct {
	Match func(sssom.Mapping) bool
	Where string
	Args  []any
}

func isCurated(m sssom.Mapping) bool {
	return m.Justification.Same(curie.ManualMappingCuration)
}

var manualCuration = curie.ManualMappingCuration.CURIE()

// Positive selects manually curated mappings that were confirmed, i.e.
// carry no predicate modifier.
var Positive = Clause{
	Match: func(m sssom.Mapping) bool { return isCurated(m) && m.PredicateModifier == "" },
	Where: "justification = ? AND predicate_modifier = ''",
	Args:  []any{manualCuration},
}

// Negative selects manually curated mappings that were rejected.
var Negative = Clause{
	Match: func(m sssom.Mapping) bool { return isCurated(m) && m.PredicateModifier == sssom.Not },
	Where: "justification = ? AND predicate_modifier = ?",
	Args:  []any{manualCuration, sssom.Not},
}

// Uncurated selects mappings nobody has confirmed or rejected yet.
var Uncurated = Clause{
	Match: func(m sssom.Mapping) bool { return !isCurated(m) },
	Where: "justification <> ?",
	Args:  []any{manualCuration},
}

// UncuratedUnsure selects uncurated mappings a curator flagged as unsure.
var UncuratedUnsure = Clause{
	Match: func(m sssom.Mapping) bool { return !isCurated(m) && m.Comment == sssom.UnsureComment },
	Where: "justification <> ? AND comment = ?",
	Args:  []any{manualCuration, sssom.UnsureComment},
}

// UncuratedNotUnsure selects uncurated mappings nobody flagged yet.
var UncuratedNotUnsure = Clause{
	Match: func(m sssom.Mapping) bool { return !isCurated(m) && m.Comment != sssom.UnsureComment },
	Where: "justification <> ? AND comment <> ?",
	Args:  []any{manualCuration, sssom.UnsureComment},
}

// ClausesFromQuery translates each set field of a query into a clause.
// Prefix constraints carry a SQL condition over the indexed subject and
// object columns; the free-text constraints match against labels, which
// live only inside the JSON payload, so they filter in-process.
func ClausesFromQuery(q sssom.Query) []Clause {
	var clauses []Clause
	inProcess := func(v sssom.Query) Clause {
		return Clause{Match: v.Matches}
	}
	if q.Query != "" {
		clauses = append(clauses, inProcess(sssom.Query{Query: q.Query}))
	}
	if q.SubjectQuery != "" {
		clauses = append(clauses, inProcess(sssom.Query{SubjectQuery: q.SubjectQuery}))
	}
	if q.ObjectQuery != "" {
		clauses = append(clauses, inProcess(sssom.Query{ObjectQuery: q.ObjectQuery}))
	}
	if q.SubjectPrefix != "" {
		v := sssom.Query{SubjectPrefix: q.SubjectPrefix}
		clauses = append(clauses, Clause{
			Match: v.Matches,
			Where: "subject_id LIKE ?",
			Args:  []any{q.SubjectPrefix + ":%"},
		})
	}
	if q.ObjectPrefix != "" {
		v := sssom.Query{ObjectPrefix: q.ObjectPrefix}
		clauses = append(clauses, Clause{
			Match: v.Matches,
			Where: "object_id LIKE ?",
			Args:  []any{q.ObjectPrefix + ":%"},
		})
	}
	if q.Prefix != "" {
		v := sssom.Query{Prefix: q.Prefix}
		clauses = append(clauses, Clause{
			Match: v.Matches,
			Where: "(subject_id LIKE ? OR object_id LIKE ?)",
			Args:  []any{q.Prefix + ":%", q.Prefix + ":%"},
		})
	}
	if q.MappingTool != "" {
		clauses = append(clauses, inProcess(sssom.Query{MappingTool: q.MappingTool}))
	}
	if q.SameText {
		clauses = append(clauses, inProcess(sssom.Query{SameText: true}))
	}
	return clauses
}

func matchesAll(m sssom.Mapping, clauses []Clause) bool {
	for _, clause := range clauses {
		if clause.Match != nil && !clause.Match(m) {
			return false
		}
	}
	return true
}

// curate is the backend-shared transformation step: it resolves the new
// mapping and its reference without touching storage.
func curate(m sssom.Mapping, hash sssom.Hash, mark sssom.Mark, authors []curie.Reference) (sssom.Mapping, curie.Reference, error) {
	curated, err := sssom.Curate(m, mark, authors)
	if err != nil {
		return sssom.Mapping{}, curie.Reference{}, err
	}
	ref := hash(curated)
	curated.Record = &ref
	return curated, ref, nil
}

func publish(m sssom.Mapping, hash sssom.Hash, date *sssom.Date) (sssom.Mapping, curie.Reference) {
	published := sssom.Publish(m, date)
	published.Record = nil
	ref := hash(published)
	published.Record = &ref
	return published, ref
}
