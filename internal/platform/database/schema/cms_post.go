package schema

// PostTable represents the 'cms.post' table
type PostTable struct {
	Table        string
	ID           string
	Type         string
	Status       string
	Title        string
	Content      string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	SearchVector string
}

// Post is the schema definition for cms.post
var Post = PostTable{
	Table:        "cms.post",
	ID:           "id",
	Type:         "type",
	Status:       "status",
	Title:        "title",
	Content:      "content",
	PublishedAt:  "publishedat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	SearchVector: "searchvector",
}

func (t PostTable) Columns() []string {
	return []string{t.ID, t.Type, t.Status, t.Title, t.Content, t.PublishedAt, t.CreatedAt, t.UpdatedAt}
}
