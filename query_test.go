package sssom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/sssom-go/curie"
)

func queryFixtures() []Mapping {
	exact := Mapping{
		Subject:       curie.NewNamedReference("CHEBI", "10001", "alvimopan"),
		Predicate:     curie.ExactMatch,
		Object:        curie.NewNamedReference("mesh", "C063233", "Alvimopan"),
		Justification: curie.LexicalMatching,
		Tool:          &MappingTool{Name: "ssslm"},
	}
	broad := Mapping{
		Subject:       curie.NewNamedReference("CHEBI", "27732", "caffeine"),
		Predicate:     curie.BroadMatch,
		Object:        curie.NewNamedReference("mesh", "D000067", "stimulants"),
		Justification: curie.ManualMappingCuration,
	}
	return []Mapping{exact, broad}
}

func TestQueryZero(t *testing.T) {
	mappings := queryFixtures()
	assert.True(t, Query{}.IsZero())
	assert.Len(t, Filter(mappings, Query{}), 2)
}

func TestQueryFreeText(t *testing.T) {
	mappings := queryFixtures()

	// matches the subject label case-insensitively
	out := Filter(mappings, Query{Query: "CAFFEINE"})
	require.Len(t, out, 1)
	assert.Equal(t, "CHEBI:27732", out[0].Subject.CURIE())

	// matches the object CURIE
	out = Filter(mappings, Query{Query: "mesh:C063233"})
	require.Len(t, out, 1)

	assert.Empty(t, Filter(mappings, Query{Query: "nothing-matches"}))
}

func TestQuerySides(t *testing.T) {
	mappings := queryFixtures()

	out := Filter(mappings, Query{SubjectQuery: "alvimopan"})
	require.Len(t, out, 1)
	assert.Equal(t, "CHEBI:10001", out[0].Subject.CURIE())

	// label lives on the subject, not the object
	assert.Empty(t, Filter(mappings, Query{ObjectQuery: "caffeine"}))

	out = Filter(mappings, Query{ObjectQuery: "stimulants"})
	require.Len(t, out, 1)
}

func TestQueryPrefixes(t *testing.T) {
	mappings := queryFixtures()

	assert.Len(t, Filter(mappings, Query{SubjectPrefix: "chebi"}), 2)
	assert.Empty(t, Filter(mappings, Query{SubjectPrefix: "mesh"}))
	assert.Len(t, Filter(mappings, Query{ObjectPrefix: "mesh"}), 2)
	assert.Len(t, Filter(mappings, Query{Prefix: "MESH"}), 2)
	assert.Empty(t, Filter(mappings, Query{Prefix: "go"}))
}

func TestQueryMappingTool(t *testing.T) {
	mappings := queryFixtures()

	out := Filter(mappings, Query{MappingTool: "ssslm"})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Tool)

	assert.Empty(t, Filter(mappings, Query{MappingTool: "other-tool"}))
}

func TestQuerySameText(t *testing.T) {
	mappings := queryFixtures()

	// alvimopan/Alvimopan differ only in case and sit on an exact match
	out := Filter(mappings, Query{SameText: true})
	require.Len(t, out, 1)
	assert.Equal(t, "CHEBI:10001", out[0].Subject.CURIE())
}

func TestQueryConjunction(t *testing.T) {
	mappings := queryFixtures()

	out := Filter(mappings, Query{SubjectPrefix: "CHEBI", MappingTool: "ssslm"})
	require.Len(t, out, 1)

	assert.Empty(t, Filter(mappings, Query{SubjectQuery: "caffeine", MappingTool: "ssslm"}))
}
