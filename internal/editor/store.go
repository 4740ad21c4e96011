package editor

import "context"

// Repository defines the persistence boundary for editor accounts.
type Repository interface {
	FindByUsername(context context.Context, username string) (*Editor, error)
}
