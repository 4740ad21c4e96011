package schema

// TermMetaTable represents the 'cms.termmeta' table
type TermMetaTable struct {
	Table  string
	TermID string
	Key    string
	Value  string
}

// TermMeta is the schema definition for cms.termmeta
var TermMeta = TermMetaTable{
	Table:  "cms.termmeta",
	TermID: "termid",
	Key:    "metakey",
	Value:  "metavalue",
}
