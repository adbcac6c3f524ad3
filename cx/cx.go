// Package cx renders mappings as a CX network document, the JSON exchange
// format of NDEx. Subjects and objects become nodes, mappings become
// edges annotated with their justification and authors.
package cx

import (
	"encoding/json"
	"io"
	"sort"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
)

// Node is a CX node aspect element. The node name carries the CURIE and
// the represents field the label.
type Node struct {
	ID         int64  `json:"@id"`
	Name       string `json:"n"`
	Represents string `json:"r,omitempty"`
}

// Edge is a CX edge aspect element; the interaction is the mapping
// predicate.
type Edge struct {
	ID          int64  `json:"@id"`
	Source      int64  `json:"s"`
	Target      int64  `json:"t"`
	Interaction string `json:"i"`
}

// Attribute is a CX network attribute element.
type Attribute struct {
	Name  string `json:"n"`
	Value any    `json:"v"`
	Type  string `json:"d,omitempty"`
}

// EdgeAttribute annotates an edge by its identifier.
type EdgeAttribute struct {
	Edge  int64  `json:"po"`
	Name  string `json:"n"`
	Value any    `json:"v"`
	Type  string `json:"d,omitempty"`
}

// Network is an in-memory CX document.
type Network struct {
	Context        map[string]string
	Attributes     []Attribute
	Nodes          []Node
	Edges          []Edge
	EdgeAttributes []EdgeAttribute

	nodeIDs map[string]int64
}

// FromMappings builds a CX network from mappings and their set metadata.
// The converter, when given, supplies the @context prefix map; otherwise
// the prefixes used by the mappings are listed without expansions being
// resolvable, so passing the converter from Read is recommended.
func FromMappings(mappings []sssom.Mapping, meta *sssom.MappingSet, conv *curie.Converter) *Network {
	n := &Network{nodeIDs: make(map[string]int64)}

	if meta != nil {
		if meta.ID != "" {
			n.Attributes = append(n.Attributes, Attribute{Name: "reference", Value: meta.ID})
		}
		if meta.Title != "" {
			n.Attributes = append(n.Attributes, Attribute{Name: "name", Value: meta.Title})
		}
		if meta.Description != "" {
			n.Attributes = append(n.Attributes, Attribute{Name: "description", Value: meta.Description})
		}
		if meta.License != "" {
			n.Attributes = append(n.Attributes, Attribute{Name: "rights", Value: meta.License})
		}
		if meta.Version != "" {
			n.Attributes = append(n.Attributes, Attribute{Name: "version", Value: meta.Version})
		}
	}

	if conv != nil {
		prefixes := make(map[string]bool)
		for _, m := range mappings {
			for prefix := range m.Prefixes() {
				prefixes[prefix] = true
			}
		}
		n.Context = make(map[string]string)
		bimap := conv.Bimap()
		for prefix := range prefixes {
			if canonical, ok := conv.StandardizePrefix(prefix); ok {
				n.Context[canonical] = bimap[canonical]
			}
		}
	}

	if authors := authorORCIDs(mappings); len(authors) > 0 {
		n.Attributes = append(n.Attributes, Attribute{
			Name: "author", Value: authors, Type: "list_of_string",
		})
	}

	for _, m := range mappings {
		source := n.node(m.Subject)
		target := n.node(m.Object)
		edge := int64(len(n.Edges))
		n.Edges = append(n.Edges, Edge{
			ID:          edge,
			Source:      source,
			Target:      target,
			Interaction: m.Predicate.CURIE(),
		})
		n.EdgeAttributes = append(n.EdgeAttributes, EdgeAttribute{
			Edge: edge, Name: "mapping_justification", Value: m.Justification.CURIE(),
		})
		if len(m.Authors) > 0 {
			curies := make([]string, len(m.Authors))
			for i, a := range m.Authors {
				curies[i] = a.CURIE()
			}
			n.EdgeAttributes = append(n.EdgeAttributes, EdgeAttribute{
				Edge: edge, Name: "author_id", Value: curies, Type: "list_of_string",
			})
		}
	}
	return n
}

func (n *Network) node(ref curie.Reference) int64 {
	if id, ok := n.nodeIDs[ref.CURIE()]; ok {
		return id
	}
	id := int64(len(n.Nodes))
	n.Nodes = append(n.Nodes, Node{ID: id, Name: ref.CURIE(), Represents: ref.Name})
	n.nodeIDs[ref.CURIE()] = id
	return id
}

func authorORCIDs(mappings []sssom.Mapping) []string {
	seen := make(map[string]bool)
	for _, m := range mappings {
		for _, a := range m.Authors {
			if a.Prefix == "orcid" {
				seen[a.Identifier] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type metaDataEntry struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	ElementCount int    `json:"elementCount"`
}

// Encode writes the network as a CX aspect list.
func (n *Network) Encode(w io.Writer) error {
	aspects := []map[string]any{
		{"numberVerification": []map[string]any{{"longNumber": int64(281474976710655)}}},
	}

	var meta []metaDataEntry
	addMeta := func(name string, count int) {
		meta = append(meta, metaDataEntry{Name: name, Version: "1.0", ElementCount: count})
	}
	addMeta("networkAttributes", len(n.Attributes))
	addMeta("nodes", len(n.Nodes))
	addMeta("edges", len(n.Edges))
	addMeta("edgeAttributes", len(n.EdgeAttributes))
	aspects = append(aspects, map[string]any{"metaData": meta})

	if len(n.Context) > 0 {
		aspects = append(aspects, map[string]any{"@context": []map[string]string{n.Context}})
	}
	if len(n.Attributes) > 0 {
		aspects = append(aspects, map[string]any{"networkAttributes": n.Attributes})
	}
	aspects = append(aspects,
		map[string]any{"nodes": n.Nodes},
		map[string]any{"edges": n.Edges},
	)
	if len(n.EdgeAttributes) > 0 {
		aspects = append(aspects, map[string]any{"edgeAttributes": n.EdgeAttributes})
	}
	aspects = append(aspects, map[string]any{
		"status": []map[string]any{{"error": "", "success": true}},
	})

	enc := json.NewEncoder(w)
	return enc.Encode(aspects)
}

// MarshalJSON renders the aspect list as a JSON array.
func (n *Network) MarshalJSON() ([]byte, error) {
	var buf jsonBuffer
	if err := n.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.data, nil
}

type jsonBuffer struct{ data []byte }

func (b *jsonBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
