package sssom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cthoyt/sssom-go/curie"
)

// Mark is a curator's verdict on a predicted mapping.
type Mark string

const (
	// MarkCorrect confirms the mapping as stated.
	MarkCorrect Mark = "correct"
	// MarkIncorrect rejects the mapping, negating its predicate.
	MarkIncorrect Mark = "incorrect"
	// MarkUnsure defers the decision, flagging the mapping for review.
	MarkUnsure Mark = "unsure"
	// MarkExact confirms the pair but rewrites the predicate to
	// skos:exactMatch, likewise MarkBroad and MarkNarrow.
	MarkExact  Mark = "exact"
	MarkBroad  Mark = "broad"
	MarkNarrow Mark = "narrow"
)

// UnsureComment marks a mapping a curator looked at but could not decide
// on. It lives in the comment slot so it round-trips through files.
const UnsureComment = "UNSURE"

// ErrUnknownMark reports an unrecognized curation mark.
var ErrUnknownMark = errors.New("sssom: unknown curation mark")

// ParseMark reads a mark case-insensitively.
func ParseMark(s string) (Mark, error) {
	mark := Mark(strings.ToLower(s))
	switch mark {
	case MarkCorrect, MarkIncorrect, MarkUnsure, MarkExact, MarkBroad, MarkNarrow:
		return mark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMark, s)
}

// Curate applies a curator's mark to a mapping and returns the curated
// copy. Confirming or rejecting replaces the justification with manual
// curation, records the authors and today's date, and drops the predicted
// confidence; an unsure mark keeps the prediction intact and only flags
// the comment. The record reference is cleared so the result gets a fresh
// identity.
func Curate(m Mapping, mark Mark, authors []curie.Reference) (Mapping, error) {
	m.Record = nil
	if m.Comment == UnsureComment {
		m.Comment = ""
	}

	switch mark {
	case MarkUnsure:
		m.Comment = UnsureComment
		return m, nil
	case MarkCorrect:
	case MarkIncorrect:
		m.PredicateModifier = Not
	case MarkExact:
		m.Predicate = curie.ExactMatch
	case MarkBroad:
		m.Predicate = curie.BroadMatch
	case MarkNarrow:
		m.Predicate = curie.NarrowMatch
	default:
		return Mapping{}, fmt.Errorf("%w: %q", ErrUnknownMark, mark)
	}

	m.Justification = curie.ManualMappingCuration
	m.Authors = append([]curie.Reference(nil), authors...)
	today := Today()
	m.MappingDate = &today
	m.Confidence = nil
	return m, nil
}

// Publish stamps the mapping's publication date, defaulting to today.
func Publish(m Mapping, date *Date) Mapping {
	if date == nil {
		today := Today()
		date = &today
	}
	m.PublicationDate = date
	return m
}
