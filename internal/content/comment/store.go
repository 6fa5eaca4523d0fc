package comment

import (
	"context"

	"github.com/dkovalyov/revory/internal/content/review"
	"github.com/dkovalyov/revory/pkg/pagination"
)

type Repository interface {
	ListByReview(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	GetByID(context context.Context, reviewID, commentID int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, commentID int64) error
}

// ReviewDirectory resolves the parent review within its title, so comment
// routes 404 when the review does not belong to the addressed title.
type ReviewDirectory interface {
	GetByID(context context.Context, titleID, reviewID int64) (*review.Review, error)
}
