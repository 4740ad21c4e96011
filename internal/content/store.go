package content

import (
	"context"

	"github.com/taibuivan/polyglot/pkg/pagination"
)

// Repository defines the persistence boundary for posts.
//
// Listing methods return the page of posts plus the total row count so the
// service can build pagination metadata in one round trip.
type Repository interface {
	FindByID(context context.Context, id string) (*Post, error)
	Archive(context context.Context, postType string, params pagination.Params) ([]*Post, int, error)

	// Adjacent returns the published post immediately before or after the
	// reference post in publication order, or nil when none exists.
	Adjacent(context context.Context, reference *Post, next bool) (*Post, error)

	Search(context context.Context, query string, params pagination.Params) ([]*Post, int, error)
}
