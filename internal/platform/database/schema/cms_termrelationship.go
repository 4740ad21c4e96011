package schema

// TermRelationshipTable represents the 'cms.termrelationship' junction table.
//
// (ObjectID, TermTaxonomyID) is the primary key — a post carries a term at
// most once, which is what lets the N-way self-join chain count posts
// without de-duplication outside of search mode.
type TermRelationshipTable struct {
	Table          string
	ObjectID       string
	TermTaxonomyID string
}

// TermRelationship is the schema definition for cms.termrelationship
var TermRelationship = TermRelationshipTable{
	Table:          "cms.termrelationship",
	ObjectID:       "objectid",
	TermTaxonomyID: "termtaxonomyid",
}
