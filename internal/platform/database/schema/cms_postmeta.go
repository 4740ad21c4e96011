package schema

// PostMetaTable represents the 'cms.postmeta' table
type PostMetaTable struct {
	Table  string
	PostID string
	Key    string
	Value  string
}

// PostMeta is the schema definition for cms.postmeta
var PostMeta = PostMetaTable{
	Table:  "cms.postmeta",
	PostID: "postid",
	Key:    "metakey",
	Value:  "metavalue",
}
