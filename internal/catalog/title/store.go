package title

import (
	"context"

	"github.com/dkovalyov/revory/pkg/pagination"
)

type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)
	GetByID(context context.Context, id int64) (*Title, error)
	Exists(context context.Context, id int64) (bool, error)
	Create(context context.Context, title *Title, genreIDs []int64) error
	Update(context context.Context, title *Title, genreIDs []int64, replaceGenres bool) error
	Delete(context context.Context, id int64) error
}
