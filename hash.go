package sssom

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cthoyt/sssom-go/curie"
)

// HashV1 derives a deterministic reference identifying a mapping by its
// content. Every slot except the record reference itself and the label
// annotations feeds the digest, so any semantic change (including
// curation state like comments) yields a new identity. The SSSOM
// specification does not define a hashing procedure yet; this is a local
// convention, versioned so it can be replaced.
func HashV1(m Mapping) curie.Reference {
	m.Record = nil
	r := m.ToRecord()

	var b strings.Builder
	for _, column := range Columns {
		switch column {
		case "record_id", "subject_label", "predicate_label", "object_label",
			"author_label", "creator_label", "reviewer_label":
			continue
		}
		b.WriteString(r.Cell(column))
		b.WriteByte(0x1f)
	}
	digest := sha256.Sum256([]byte(b.String()))
	return curie.Reference{
		Prefix:     "sssom.mapping",
		Identifier: "v1-" + hex.EncodeToString(digest[:16]),
	}
}

// Hash is the type of a deterministic mapping hashing procedure, used by
// repositories to assign record references.
type Hash func(Mapping) curie.Reference
