package schema

// EditorTable represents the 'users.editor' table
type EditorTable struct {
	Table        string
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    string
}

// Editor is the schema definition for users.editor
var Editor = EditorTable{
	Table:        "users.editor",
	ID:           "id",
	Username:     "username",
	PasswordHash: "passwordhash",
	Role:         "role",
	CreatedAt:    "createdat",
}
