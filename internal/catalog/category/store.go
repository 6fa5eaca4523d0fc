package category

import (
	"context"

	"github.com/dkovalyov/revory/pkg/pagination"
)

type Repository interface {
	List(context context.Context, search string, params pagination.Params) ([]*Category, int, error)
	GetBySlug(context context.Context, slug string) (*Category, error)
	Create(context context.Context, category *Category) error
	DeleteBySlug(context context.Context, slug string) error
}
