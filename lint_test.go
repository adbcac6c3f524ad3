package sssom

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/sssom-go/curie"
)

// header returns the TSV column header of an SSSOM file, i.e. the first
// line that is not frontmatter.
func header(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "#") {
			return line
		}
	}
	t.Fatal("no header line found")
	return ""
}

func TestLintSortsRows(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		row("subject_id", "predicate_id", "object_id", "mapping_justification"),
		row("CHEBI:2", "skos:exactMatch", "mesh:2", "semapv:LexicalMatching"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching"),
	)

	require.NoError(t, Lint(path, nil))

	mappings, _, _, err := Read(path, nil)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "CHEBI:1", mappings[0].Subject.CURIE())
	assert.Equal(t, "CHEBI:2", mappings[1].Subject.CURIE())
}

func TestLintCondensesConstantColumns(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		"#  biotools: https://bio.tools/",
		row("subject_id", "predicate_id", "object_id", "mapping_justification", "mapping_tool_id"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching", "biotools:ssslm"),
		row("CHEBI:2", "skos:exactMatch", "mesh:2", "semapv:LexicalMatching", "biotools:ssslm"),
	)

	require.NoError(t, Lint(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "#mapping_tool_id: biotools:ssslm")
	assert.NotContains(t, header(t, path), "mapping_tool_id")
	// the prefix of the condensed value must survive in the curie_map
	assert.Contains(t, content, "biotools: https://bio.tools/")

	// propagation restores the condensed column on read
	mappings, _, _, err := Read(path, nil)
	require.NoError(t, err)
	for _, m := range mappings {
		require.NotNil(t, m.Tool)
		require.NotNil(t, m.Tool.Reference)
		assert.Equal(t, "biotools:ssslm", m.Tool.Reference.CURIE())
	}
}

func TestLintDoesNotCondenseVaryingColumns(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		row("subject_id", "predicate_id", "object_id", "mapping_justification", "mapping_tool"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching", "tool-a"),
		row("CHEBI:2", "skos:exactMatch", "mesh:2", "semapv:LexicalMatching", "tool-b"),
	)

	require.NoError(t, Lint(path, nil))
	assert.Contains(t, header(t, path), "mapping_tool")
}

func TestLintIdempotent(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		"#mapping_tool: ssslm",
		row("subject_id", "predicate_id", "object_id", "mapping_justification", "confidence"),
		row("CHEBI:2", "skos:exactMatch", "mesh:2", "semapv:LexicalMatching", "0.8"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching", "0.9"),
	)

	require.NoError(t, Lint(path, nil))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Lint(path, nil))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestLintExcludesTriples(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		row("subject_id", "predicate_id", "object_id", "mapping_justification"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching"),
		row("CHEBI:2", "skos:exactMatch", "mesh:2", "semapv:LexicalMatching"),
	)

	exclude := Mapping{
		Subject:   curie.NewReference("CHEBI", "1"),
		Predicate: curie.ExactMatch,
		Object:    curie.NewReference("mesh", "1"),
	}
	require.NoError(t, Lint(path, &LintOptions{Exclude: []Mapping{exclude}}))

	mappings, _, _, err := Read(path, nil)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "CHEBI:2", mappings[0].Subject.CURIE())
}

func TestLintDropDuplicatesPrefersExactMatch(t *testing.T) {
	path := writeTestFile(t,
		"#curie_map:",
		"#  CHEBI: http://purl.obolibrary.org/obo/CHEBI_",
		"#  mesh: https://meshb.nlm.nih.gov/record/ui?ui=",
		"#  oboInOwl: http://www.geneontology.org/formats/oboInOwl#",
		row("subject_id", "predicate_id", "object_id", "mapping_justification"),
		row("CHEBI:1", "oboInOwl:hasDbXref", "mesh:1", "semapv:UnspecifiedMatching"),
		row("CHEBI:1", "skos:exactMatch", "mesh:1", "semapv:LexicalMatching"),
		row("CHEBI:2", "oboInOwl:hasDbXref", "mesh:2", "semapv:UnspecifiedMatching"),
	)

	require.NoError(t, Lint(path, &LintOptions{DropDuplicates: true}))

	mappings, _, _, err := Read(path, nil)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.True(t, mappings[0].Predicate.Same(curie.ExactMatch))
	assert.Equal(t, "CHEBI:2", mappings[1].Subject.CURIE())
	assert.True(t, mappings[1].Predicate.Same(curie.HasDbXref))
}
