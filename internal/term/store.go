package term

import "context"

// Repository defines the persistence boundary for taxonomy terms.
type Repository interface {
	FindByID(context context.Context, id int) (*Term, error)
	ListByTaxonomy(context context.Context, taxonomy string) ([]*Term, error)
}
