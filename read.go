package sssom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cthoyt/sssom-go/curie"
)

// ReadOptions tunes Read and ReadRecords. All fields are optional.
type ReadOptions struct {
	// MetadataPath points to an external YAML metadata document whose
	// values override the file's inline frontmatter.
	MetadataPath string
	// Metadata overrides both the external and inline metadata.
	Metadata *MappingSet
	// Converter is chained in front of the converter derived from the
	// metadata, winning on prefix conflicts.
	Converter *curie.Converter
}

// Read parses an SSSOM TSV file into processed mappings. The returned
// converter is the chained prefix map used for standardization, and the
// mapping set carries the merged frontmatter metadata.
func Read(path string, opts *ReadOptions) ([]Mapping, *curie.Converter, *MappingSet, error) {
	records, conv, ms, err := ReadRecords(path, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	mappings := make([]Mapping, len(records))
	for i := range records {
		m, err := records[i].ToMapping(conv)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		mappings[i] = m
	}
	return mappings, conv, ms, nil
}

// ReadRecords parses an SSSOM TSV file into unprocessed rows.
func ReadRecords(path string, opts *ReadOptions) ([]Record, *curie.Converter, *MappingSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer func() { _ = file.Close() }()

	records, conv, ms, err := readRecordsFrom(file, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, conv, ms, nil
}

func readRecordsFrom(r io.Reader, opts *ReadOptions) ([]Record, *curie.Converter, *MappingSet, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	var external *MappingSet
	if opts.MetadataPath != "" {
		doc, err := os.ReadFile(opts.MetadataPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("external metadata: %w", err)
		}
		external, err = ParseMappingSet(doc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("external metadata: %w", err)
		}
	}

	reader := bufio.NewReader(r)
	columns, inline, err := chompFrontmatter(reader)
	if err != nil {
		return nil, nil, nil, err
	}

	ms := mergeMappingSets(inline, external, opts.Metadata)

	conv := curie.Chain(
		curie.FromPrefixMap(prefixMapOf(opts.Metadata)),
		curie.FromPrefixMap(prefixMapOf(external)),
		curie.FromPrefixMap(prefixMapOf(inline)),
		curie.FromPrefixMap(DefaultPrefixMap),
	)
	if opts.Converter != nil {
		conv = curie.Chain(opts.Converter, conv)
	}

	propagated := ms.Propagated()

	var records []Record
	row := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				row++
				record, perr := parseRow(columns, strings.Split(line, "\t"), propagated)
				if perr != nil {
					return nil, nil, nil, fmt.Errorf("row %d: %w", row, perr)
				}
				if record != nil {
					records = append(records, *record)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return records, conv, ms, nil
}

// chompFrontmatter consumes the leading comment block, returning the TSV
// column header and the parsed YAML metadata. Blank comment lines inside
// the block are tolerated.
func chompFrontmatter(reader *bufio.Reader) ([]string, *MappingSet, error) {
	var doc strings.Builder
	var headerLine string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "#") {
			trimmed := strings.TrimLeft(line, "#")
			if strings.TrimSpace(trimmed) != "" {
				doc.WriteString(trimmed)
				doc.WriteString("\n")
			}
			if err != nil {
				return nil, nil, fmt.Errorf("unexpected end of file in frontmatter")
			}
			continue
		}
		headerLine = line
		if err != nil && headerLine == "" {
			return nil, nil, fmt.Errorf("missing column header")
		}
		break
	}

	columns := strings.Split(strings.TrimSpace(headerLine), "\t")
	if len(columns) == 0 || columns[0] == "" {
		return nil, nil, fmt.Errorf("missing column header")
	}

	ms := &MappingSet{}
	if doc.Len() > 0 {
		parsed, err := ParseMappingSet([]byte(doc.String()))
		if err != nil {
			return nil, nil, err
		}
		ms = parsed
	}
	return columns, ms, nil
}

// parseRow builds a record from one TSV row. Cells that are empty or hold
// the conventional "." placeholder are dropped; propagatable slots absent
// from the row are filled from the frontmatter. A row with no surviving
// cells yields nil.
func parseRow(columns, cells []string, propagated map[string]string) (*Record, error) {
	values := make(map[string]string, len(columns))
	for i, column := range columns {
		if i >= len(cells) {
			break
		}
		v := strings.TrimSpace(cells[i])
		if v == "" || v == "." {
			continue
		}
		values[column] = v
	}
	if len(values) == 0 {
		return nil, nil
	}
	for column, value := range propagated {
		if Propagatable[column] && values[column] == "" {
			values[column] = value
		}
	}

	var record Record
	for column, value := range values {
		if err := record.SetCell(column, value); err != nil {
			return nil, err
		}
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

func prefixMapOf(ms *MappingSet) map[string]string {
	if ms == nil {
		return nil
	}
	return ms.CURIEMap
}

// mergeMappingSets overlays non-zero fields of later sets over earlier
// ones, merging the prefix maps with later sets winning.
func mergeMappingSets(sets ...*MappingSet) *MappingSet {
	out := &MappingSet{}
	for _, ms := range sets {
		if ms == nil {
			continue
		}
		overlayString(&out.ID, ms.ID)
		overlayString(&out.Title, ms.Title)
		overlayString(&out.Description, ms.Description)
		overlayString(&out.Version, ms.Version)
		overlayString(&out.License, ms.License)
		overlayString(&out.MappingTool, ms.MappingTool)
		overlayString(&out.MappingToolID, ms.MappingToolID)
		overlayString(&out.MappingToolVersion, ms.MappingToolVersion)
		overlayString(&out.MappingDate, ms.MappingDate)
		overlayString(&out.MappingProvider, ms.MappingProvider)
		overlayString(&out.SimilarityMeasure, ms.SimilarityMeasure)
		overlayString(&out.SubjectSource, ms.SubjectSource)
		overlayString(&out.SubjectSourceVersion, ms.SubjectSourceVersion)
		overlayString(&out.SubjectType, ms.SubjectType)
		overlayString(&out.ObjectSource, ms.ObjectSource)
		overlayString(&out.ObjectSourceVersion, ms.ObjectSourceVersion)
		overlayString(&out.ObjectType, ms.ObjectType)
		overlayString(&out.PredicateType, ms.PredicateType)
		overlayString(&out.Comment, ms.Comment)
		overlayList(&out.SubjectMatchField, ms.SubjectMatchField)
		overlayList(&out.ObjectMatchField, ms.ObjectMatchField)
		overlayList(&out.SubjectPreprocessing, ms.SubjectPreprocessing)
		overlayList(&out.ObjectPreprocessing, ms.ObjectPreprocessing)
		overlayList(&out.CreatorID, ms.CreatorID)
		overlayList(&out.SeeAlso, ms.SeeAlso)
		if len(ms.CURIEMap) > 0 {
			if out.CURIEMap == nil {
				out.CURIEMap = make(map[string]string, len(ms.CURIEMap))
			}
			for prefix, uri := range ms.CURIEMap {
				out.CURIEMap[prefix] = uri
			}
		}
		for key, value := range ms.Extra {
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[key] = value
		}
	}
	return out
}

func overlayString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func overlayList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}
