package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
)

var testAuthor = curie.NewReference("orcid", "0000-0003-4423-4370")

func predictedMapping(subject string) sssom.Mapping {
	confidence := 0.9
	return sssom.Mapping{
		Subject:       curie.NewNamedReference("CHEBI", subject, "alvimopan"),
		Predicate:     curie.ExactMatch,
		Object:        curie.NewNamedReference("mesh", "C063233", "alvimopan"),
		Justification: curie.LexicalMatching,
		Confidence:    &confidence,
	}
}

// backends runs a subtest against every Repository implementation.
func backends(t *testing.T, run func(t *testing.T, repo Repository)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		repo := NewMemory(nil)
		defer func() { require.NoError(t, repo.Close()) }()
		run(t, repo)
	})
	t.Run("sqlite", func(t *testing.T) {
		repo, err := OpenSQLite(filepath.Join(t.TempDir(), "mappings.db"), DefaultSQLiteConfig())
		require.NoError(t, err)
		defer func() { require.NoError(t, repo.Close()) }()
		run(t, repo)
	})
}

func TestRepositoryAddGet(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		m := predictedMapping("10001")

		ref, err := repo.Add(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, "sssom.mapping", ref.Prefix)

		// adding the same content is a no-op
		again, err := repo.Add(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, ref, again)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := repo.Get(ctx, ref)
		require.NoError(t, err)
		assert.True(t, got.Subject.Same(m.Subject))
		require.NotNil(t, got.Record)
		assert.True(t, got.Record.Same(ref))
	})
}

func TestRepositoryNotFound(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		missing := curie.NewReference("sssom.mapping", "v1-missing")

		_, err := repo.Get(ctx, missing)
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, missing), ErrNotFound)
		_, err = repo.Curate(ctx, missing, sssom.MarkCorrect, nil)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = repo.Publish(ctx, missing, nil)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepositoryDelete(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ref, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, ref))
		_, err = repo.Get(ctx, ref)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepositoryCurate(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		oldRef, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)

		newRef, err := repo.Curate(ctx, oldRef, sssom.MarkCorrect, []curie.Reference{testAuthor})
		require.NoError(t, err)
		assert.NotEqual(t, oldRef, newRef, "curation changes the identity")

		// the old record is replaced by the curated one
		_, err = repo.Get(ctx, oldRef)
		require.ErrorIs(t, err, ErrNotFound)

		curated, err := repo.Get(ctx, newRef)
		require.NoError(t, err)
		assert.True(t, curated.Justification.Same(curie.ManualMappingCuration))
		assert.Equal(t, []curie.Reference{testAuthor}, curated.Authors)
		assert.Nil(t, curated.Confidence)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestRepositoryCurateUnknownMark(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ref, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)

		_, err = repo.Curate(ctx, ref, sssom.Mark("bogus"), nil)
		require.ErrorIs(t, err, sssom.ErrUnknownMark)

		// the original record is untouched
		_, err = repo.Get(ctx, ref)
		require.NoError(t, err)
	})
}

func TestRepositoryPublish(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		oldRef, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)

		date := sssom.NewDate(2024, 5, 17)
		newRef, err := repo.Publish(ctx, oldRef, &date)
		require.NoError(t, err)
		assert.NotEqual(t, oldRef, newRef)

		published, err := repo.Get(ctx, newRef)
		require.NoError(t, err)
		require.NotNil(t, published.PublicationDate)
		assert.Equal(t, date, *published.PublicationDate)
	})
}

func TestRepositoryListClauses(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		predictedRef, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)
		unsureSeed, err := repo.Add(ctx, predictedMapping("10002"))
		require.NoError(t, err)
		positiveSeed, err := repo.Add(ctx, predictedMapping("10003"))
		require.NoError(t, err)
		negativeSeed, err := repo.Add(ctx, predictedMapping("10004"))
		require.NoError(t, err)

		_, err = repo.Curate(ctx, unsureSeed, sssom.MarkUnsure, nil)
		require.NoError(t, err)
		_, err = repo.Curate(ctx, positiveSeed, sssom.MarkCorrect, []curie.Reference{testAuthor})
		require.NoError(t, err)
		_, err = repo.Curate(ctx, negativeSeed, sssom.MarkIncorrect, []curie.Reference{testAuthor})
		require.NoError(t, err)

		counts := map[string]struct {
			clause Clause
			want   int
		}{
			"positive":           {Positive, 1},
			"negative":           {Negative, 1},
			"uncurated":          {Uncurated, 2},
			"uncurated-unsure":   {UncuratedUnsure, 1},
			"uncurated-no-flag":  {UncuratedNotUnsure, 1},
			"positive-and-exact": {Clause{Match: func(m sssom.Mapping) bool {
				return Positive.Match(m) && m.Predicate.Same(curie.ExactMatch)
			}}, 1},
		}
		for name, tc := range counts {
			mappings, err := repo.List(ctx, tc.clause)
			require.NoError(t, err, name)
			assert.Len(t, mappings, tc.want, name)
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		// the untouched prediction is the one without the unsure flag
		mappings, err := repo.List(ctx, UncuratedNotUnsure)
		require.NoError(t, err)
		require.Len(t, mappings, 1)
		require.NotNil(t, mappings[0].Record)
		assert.True(t, mappings[0].Record.Same(predictedRef))
	})
}

func TestCurationClausesCarrySQL(t *testing.T) {
	for name, clause := range map[string]Clause{
		"positive":   Positive,
		"negative":   Negative,
		"uncurated":  Uncurated,
		"unsure":     UncuratedUnsure,
		"not-unsure": UncuratedNotUnsure,
	} {
		assert.NotEmpty(t, clause.Where, name)
		assert.NotEmpty(t, clause.Args, name)
		assert.NotNil(t, clause.Match, name)
	}
}

func TestRepositoryListPrefixClause(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		_, err := repo.Add(ctx, predictedMapping("10001"))
		require.NoError(t, err)
		other := predictedMapping("10002")
		other.Object = curie.NewReference("go", "0001")
		_, err = repo.Add(ctx, other)
		require.NoError(t, err)

		mappings, err := repo.List(ctx, ClausesFromQuery(sssom.Query{ObjectPrefix: "mesh"})...)
		require.NoError(t, err)
		require.Len(t, mappings, 1)
		assert.Equal(t, "CHEBI:10001", mappings[0].Subject.CURIE())

		// the prefix must match whole, not as a substring
		mappings, err = repo.List(ctx, ClausesFromQuery(sssom.Query{ObjectPrefix: "mes"})...)
		require.NoError(t, err)
		assert.Empty(t, mappings)

		mappings, err = repo.List(ctx, ClausesFromQuery(sssom.Query{Prefix: "go"})...)
		require.NoError(t, err)
		require.Len(t, mappings, 1)
		assert.Equal(t, "go:0001", mappings[0].Object.CURIE())
	})
}

func TestClausesFromQueryCoversEveryField(t *testing.T) {
	full := sssom.Query{
		Query:         "a",
		SubjectQuery:  "b",
		SubjectPrefix: "c",
		ObjectQuery:   "d",
		ObjectPrefix:  "e",
		Prefix:        "f",
		MappingTool:   "g",
		SameText:      true,
	}
	assert.Len(t, ClausesFromQuery(full), 8)
	assert.Empty(t, ClausesFromQuery(sssom.Query{}))
}

func TestClausesFromQueryFilter(t *testing.T) {
	repo := NewMemory(nil)
	defer func() { _ = repo.Close() }()
	ctx := context.Background()

	_, err := repo.Add(ctx, predictedMapping("10001"))
	require.NoError(t, err)
	other := predictedMapping("10002")
	other.Object = curie.NewReference("go", "0001")
	_, err = repo.Add(ctx, other)
	require.NoError(t, err)

	mappings, err := repo.List(ctx, ClausesFromQuery(sssom.Query{ObjectPrefix: "mesh"})...)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "CHEBI:10001", mappings[0].Subject.CURIE())
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.sssom.tsv")
	conv := curie.FromPrefixMap(map[string]string{
		"CHEBI": "http://purl.obolibrary.org/obo/CHEBI_",
		"mesh":  "https://meshb.nlm.nih.gov/record/ui?ui=",
	})
	original := []sssom.Mapping{predictedMapping("10001"), predictedMapping("10002")}
	require.NoError(t, sssom.Write(original, source, &sssom.WriteOptions{Converter: conv}))

	repo := NewMemory(nil)
	defer func() { _ = repo.Close() }()
	ctx := context.Background()

	n, readConv, err := ImportFile(ctx, repo, source, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NotNil(t, readConv)

	target := filepath.Join(dir, "out.sssom.tsv")
	require.NoError(t, ExportFile(ctx, repo, target, &sssom.WriteOptions{Converter: readConv}))

	exported, _, _, err := sssom.Read(target, nil)
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, "CHEBI:10001", exported[0].Subject.CURIE())
	assert.Equal(t, "CHEBI:10002", exported[1].Subject.CURIE())
}
