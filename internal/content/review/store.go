package review

import (
	"context"

	"github.com/dkovalyov/revory/pkg/pagination"
)

type Repository interface {
	ListByTitle(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)
	GetByID(context context.Context, titleID, reviewID int64) (*Review, error)
	ExistsByAuthor(context context.Context, titleID int64, authorID string) (bool, error)
	Create(context context.Context, review *Review) error
	Update(context context.Context, review *Review) error
	Delete(context context.Context, reviewID int64) error
}

// TitleDirectory is the narrow view of the catalog needed to anchor
// reviews to existing titles.
type TitleDirectory interface {
	Exists(context context.Context, titleID int64) (bool, error)
}
