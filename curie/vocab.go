package curie

// Well-known references used across SSSOM files. Mirrors the subset of the
// skos, semapv, owl, and oboInOwl vocabularies that mapping predicates,
// justifications, and entity types draw from.
var (
	// skos mapping predicates
	ExactMatch   = Reference{Prefix: "skos", Identifier: "exactMatch"}
	CloseMatch   = Reference{Prefix: "skos", Identifier: "closeMatch"}
	BroadMatch   = Reference{Prefix: "skos", Identifier: "broadMatch"}
	NarrowMatch  = Reference{Prefix: "skos", Identifier: "narrowMatch"}
	RelatedMatch = Reference{Prefix: "skos", Identifier: "relatedMatch"}

	// database cross-reference predicate
	HasDbXref = Reference{Prefix: "oboInOwl", Identifier: "hasDbXref"}

	// semapv mapping justifications
	ManualMappingCuration       = Reference{Prefix: "semapv", Identifier: "ManualMappingCuration"}
	LexicalMatching             = Reference{Prefix: "semapv", Identifier: "LexicalMatching"}
	LogicalMatching             = Reference{Prefix: "semapv", Identifier: "LogicalMatching"}
	CompositeMatching           = Reference{Prefix: "semapv", Identifier: "CompositeMatching"}
	UnspecifiedMatching         = Reference{Prefix: "semapv", Identifier: "UnspecifiedMatching"}
	SemanticSimilarityThreshold = Reference{Prefix: "semapv", Identifier: "SemanticSimilarityThresholdMatching"}
	MappingChaining             = Reference{Prefix: "semapv", Identifier: "MappingChaining"}
	MappingInversion            = Reference{Prefix: "semapv", Identifier: "MappingInversion"}
)

// MatchPredicates lists the skos semantic mapping predicates, broadest
// scope last.
var MatchPredicates = []Reference{
	ExactMatch,
	CloseMatch,
	BroadMatch,
	NarrowMatch,
	RelatedMatch,
}

// EntityTypes enumerates the values allowed for subject_type, object_type,
// and predicate_type, from the SSSOM EntityTypeEnum.
var EntityTypes = []Reference{
	{Prefix: "owl", Identifier: "Class"},
	{Prefix: "owl", Identifier: "ObjectProperty"},
	{Prefix: "owl", Identifier: "DataProperty"},
	{Prefix: "owl", Identifier: "AnnotationProperty"},
	{Prefix: "owl", Identifier: "NamedIndividual"},
	{Prefix: "skos", Identifier: "Concept"},
	{Prefix: "rdfs", Identifier: "Resource"},
	{Prefix: "rdfs", Identifier: "Literal"},
	{Prefix: "rdfs", Identifier: "Datatype"},
	{Prefix: "rdf", Identifier: "Property"},
	{Prefix: "sssom", Identifier: "ComposedEntityExpression"},
}
