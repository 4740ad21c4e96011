package schema

// TermTable represents the 'cms.term' table.
//
// One row per (term, taxonomy) pair; the serial id is the term-taxonomy id
// referenced by cms.termrelationship.
type TermTable struct {
	Table       string
	ID          string
	Taxonomy    string
	Name        string
	Slug        string
	Description string
	CreatedAt   string
}

// Term is the schema definition for cms.term
var Term = TermTable{
	Table:       "cms.term",
	ID:          "id",
	Taxonomy:    "taxonomy",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	CreatedAt:   "createdat",
}

func (t TermTable) Columns() []string {
	return []string{t.ID, t.Taxonomy, t.Name, t.Slug, t.Description}
}
