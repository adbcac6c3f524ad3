package sssom

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/cthoyt/sssom-go/curie"
)

// WriteOptions tunes Write, WriteRecords, and Append.
type WriteOptions struct {
	// Metadata supplies the set-level frontmatter. Propagatable slots set
	// here are not repeated per row on read.
	Metadata *MappingSet
	// Converter supplies the curie_map, pruned to the prefixes the rows
	// actually use. When nil, Metadata must carry a curie_map.
	Converter *curie.Converter
	// ExcludeColumns are dropped from the output.
	ExcludeColumns []string
}

// ErrColumnMismatch reports an append that would introduce columns absent
// from the target file's header.
var ErrColumnMismatch = errors.New("sssom: append would introduce new columns")

// ErrUndeclaredPrefix reports a write whose rows use a prefix the
// converter cannot expand.
var ErrUndeclaredPrefix = errors.New("sssom: prefix not declared by the converter")

// Write renders mappings to an SSSOM TSV file. The write is atomic: the
// file is replaced via a rename, never left half-written.
func Write(mappings []Mapping, path string, opts *WriteOptions) error {
	records := make([]Record, len(mappings))
	prefixes := make(map[string]bool)
	for i := range mappings {
		records[i] = mappings[i].ToRecord()
		for prefix := range mappings[i].Prefixes() {
			prefixes[prefix] = true
		}
	}
	return writeRecords(records, path, opts, prefixes)
}

// WriteRecords renders unprocessed rows to an SSSOM TSV file.
func WriteRecords(records []Record, path string, opts *WriteOptions) error {
	return writeRecords(records, path, opts, recordPrefixes(records))
}

func writeRecords(records []Record, path string, opts *WriteOptions, prefixes map[string]bool) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	exclude := toSet(opts.ExcludeColumns)

	meta := opts.Metadata.Clone()
	if meta == nil {
		meta = &MappingSet{}
	}
	for column, value := range meta.Propagated() {
		collectCellPrefixes(prefixes, column, value)
	}
	if opts.Converter != nil {
		pruned, err := pruneBimap(opts.Converter, prefixes)
		if err != nil {
			return err
		}
		meta.CURIEMap = pruned
	}
	if len(meta.CURIEMap) == 0 {
		return errors.New("sssom: write needs a converter or metadata with a curie_map")
	}

	columns := make([]string, 0)
	for _, column := range UsedColumns(records) {
		if !exclude[column] {
			columns = append(columns, column)
		}
	}
	if len(columns) == 0 {
		columns = []string{"subject_id", "predicate_id", "object_id", "mapping_justification"}
	}

	var buf bytes.Buffer
	if err := renderFrontmatter(&buf, meta); err != nil {
		return err
	}
	buf.WriteString(strings.Join(columns, "\t"))
	buf.WriteString("\n")
	for i := range records {
		writeRow(&buf, &records[i], columns)
	}

	return renameio.WriteFile(path, buf.Bytes(), 0o644)
}

// Append adds mappings to an existing SSSOM TSV file, reusing its header.
// Mappings that set a column missing from the file fail with
// ErrColumnMismatch rather than being silently truncated.
func Append(mappings []Mapping, path string, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	exclude := toSet(opts.ExcludeColumns)

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	columns, _, err := chompFrontmatter(bufio.NewReader(file))
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	// hand-edited files may lack the trailing newline
	needsNewline := false
	var last [1]byte
	if _, err := file.Seek(-1, io.SeekEnd); err == nil {
		if _, err := file.Read(last[:]); err == nil && last[0] != '\n' {
			needsNewline = true
		}
	}
	_ = file.Close()
	have := toSet(columns)

	records := make([]Record, len(mappings))
	for i := range mappings {
		records[i] = mappings[i].ToRecord()
	}
	var missing []string
	for _, column := range UsedColumns(records) {
		if !have[column] && !exclude[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrColumnMismatch, strings.Join(missing, ", "))
	}

	var buf bytes.Buffer
	if needsNewline && len(records) > 0 {
		buf.WriteByte('\n')
	}
	for i := range records {
		writeRow(&buf, &records[i], columns)
	}

	out, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// renderFrontmatter emits the metadata as a sorted, comment-prefixed YAML
// block.
func renderFrontmatter(buf *bytes.Buffer, meta *MappingSet) error {
	flat, err := meta.asMap()
	if err != nil {
		return fmt.Errorf("sssom: render frontmatter: %w", err)
	}
	var doc bytes.Buffer
	enc := yaml.NewEncoder(&doc)
	enc.SetIndent(2)
	if err := enc.Encode(flat); err != nil {
		return fmt.Errorf("sssom: render frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sssom: render frontmatter: %w", err)
	}
	for _, line := range strings.Split(strings.TrimRight(doc.String(), "\n"), "\n") {
		buf.WriteString("#")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return nil
}

func writeRow(buf *bytes.Buffer, record *Record, columns []string) {
	for i, column := range columns {
		if i > 0 {
			buf.WriteString("\t")
		}
		buf.WriteString(record.Cell(column))
	}
	buf.WriteString("\n")
}

// referenceColumns hold CURIE-valued cells and therefore contribute
// prefixes to the output curie_map.
var referenceColumns = map[string]bool{
	"record_id": true, "subject_id": true, "predicate_id": true,
	"object_id": true, "mapping_justification": true,
	"author_id": true, "reviewer_id": true, "creator_id": true,
	"subject_source": true, "object_source": true, "mapping_source": true,
	"mapping_tool_id": true, "curation_rule": true,
	"subject_match_field": true, "object_match_field": true,
	"subject_preprocessing": true, "object_preprocessing": true,
	"issue_tracker_item": true,
}

func recordPrefixes(records []Record) map[string]bool {
	prefixes := make(map[string]bool)
	for i := range records {
		for column := range referenceColumns {
			collectCellPrefixes(prefixes, column, records[i].Cell(column))
		}
	}
	return prefixes
}

func collectCellPrefixes(prefixes map[string]bool, column, cell string) {
	if !referenceColumns[column] || cell == "" {
		return
	}
	for _, value := range strings.Split(cell, "|") {
		if strings.Contains(value, "://") {
			continue
		}
		if prefix, _, ok := strings.Cut(value, ":"); ok && prefix != "" {
			prefixes[prefix] = true
		}
	}
}

// pruneBimap restricts a converter's prefix map to the prefixes in use.
// A prefix the converter does not know is an error: dropping it would
// emit a file that fails its own re-read.
func pruneBimap(conv *curie.Converter, prefixes map[string]bool) (map[string]string, error) {
	bimap := conv.Bimap()
	out := make(map[string]string, len(prefixes))
	var missing []string
	for prefix := range prefixes {
		canonical, ok := conv.StandardizePrefix(prefix)
		if !ok {
			missing = append(missing, prefix)
			continue
		}
		if uriPrefix, ok := bimap[canonical]; ok {
			out[canonical] = uriPrefix
		} else {
			missing = append(missing, prefix)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrUndeclaredPrefix, strings.Join(missing, ", "))
	}
	return out, nil
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
