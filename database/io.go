package database

import (
	"context"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
)

// ImportFile loads an SSSOM TSV file into the repository and returns how
// many mappings were read, along with the file's converter for later
// export.
func ImportFile(ctx context.Context, repo Repository, path string, opts *sssom.ReadOptions) (int, *curie.Converter, error) {
	mappings, conv, _, err := sssom.Read(path, opts)
	if err != nil {
		return 0, nil, err
	}
	for _, m := range mappings {
		if _, err := repo.Add(ctx, m); err != nil {
			return 0, nil, err
		}
	}
	return len(mappings), conv, nil
}

// ExportFile writes the repository's mappings (optionally filtered by
// clauses) to an SSSOM TSV file in canonical row order.
func ExportFile(ctx context.Context, repo Repository, path string, opts *sssom.WriteOptions, clauses ...Clause) error {
	mappings, err := repo.List(ctx, clauses...)
	if err != nil {
		return err
	}
	sssom.SortMappings(mappings)
	return sssom.Write(mappings, path, opts)
}
