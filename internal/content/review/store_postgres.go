package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovalyov/revory/internal/platform/database/schema"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// reviewProjection selects review columns joined with the author username.
func reviewProjection() string {
	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON r.%s = a.%s`,
		schema.RefReview.ID, schema.RefReview.TitleID, schema.RefReview.AuthorID,
		schema.RefAccount.Username,
		schema.RefReview.Text, schema.RefReview.Score, schema.RefReview.PubDate,
		schema.RefReview.Table,
		schema.RefAccount.Table, schema.RefReview.AuthorID, schema.RefAccount.ID,
	)
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.RefReview.Table, schema.RefReview.TitleID)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	listQuery := fmt.Sprintf(`%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		reviewProjection(),
		schema.RefReview.TitleID,
		schema.RefReview.PubDate, schema.RefReview.ID,
	)

	rows, err := repository.db.Query(context, listQuery, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.AuthorName, &r.Text, &r.Score, &r.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, r)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`,
		reviewProjection(), schema.RefReview.TitleID, schema.RefReview.ID)

	r := &Review{}
	err := repository.db.QueryRow(context, query, titleID, reviewID).Scan(
		&r.ID, &r.TitleID, &r.AuthorID, &r.AuthorName, &r.Text, &r.Score, &r.PubDate)
	if err != nil {
		return nil, dberr.Wrap(err, "get_review_by_id")
	}

	return r, nil
}

func (repository *PostgresRepository) ExistsByAuthor(context context.Context, titleID int64, authorID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.RefReview.Table, schema.RefReview.TitleID, schema.RefReview.AuthorID)

	exists := false
	if err := repository.db.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_exists_by_author")
	}

	return exists, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s`,
		schema.RefReview.Table,
		schema.RefReview.TitleID, schema.RefReview.AuthorID, schema.RefReview.Text, schema.RefReview.Score,
		schema.RefReview.ID, schema.RefReview.PubDate)

	err := repository.db.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score).Scan(&review.ID, &review.PubDate)
	if err != nil {
		return dberr.Wrap(err, "create_review")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.RefReview.Table,
		schema.RefReview.Text, schema.RefReview.Score,
		schema.RefReview.ID)

	tag, err := repository.db.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefReview.Table, schema.RefReview.ID)

	tag, err := repository.db.Exec(context, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
