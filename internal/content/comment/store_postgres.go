package comment

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

// commentProjection selects comment columns joined with the author username.
func commentProjection() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON c.%s = a.%s`,
		schema.RefComment.ID, schema.RefComment.ReviewID, schema.RefComment.AuthorID,
		schema.RefAccount.Username,
		schema.RefComment.Text, schema.RefComment.PubDate,
		schema.RefComment.Table,
		schema.RefAccount.Table, schema.RefComment.AuthorID, schema.RefAccount.ID,
	)
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.RefComment.Table, schema.RefComment.ReviewID)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	listQuery := fmt.Sprintf(`%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		commentProjection(),
		schema.RefComment.ReviewID,
		schema.RefComment.PubDate, schema.RefComment.ID,
	)

	rows, err := repository.db.Query(context, listQuery, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.AuthorName, &c.Text, &c.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2`,
		commentProjection(), schema.RefComment.ReviewID, schema.RefComment.ID)

	c := &Comment{}
	err := repository.db.QueryRow(context, query, reviewID, commentID).Scan(
		&c.ID, &c.ReviewID, &c.AuthorID, &c.AuthorName, &c.Text, &c.PubDate)
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment_by_id")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s`,
		schema.RefComment.Table,
		schema.RefComment.ReviewID, schema.RefComment.AuthorID, schema.RefComment.Text,
		schema.RefComment.ID, schema.RefComment.PubDate)

	err := repository.db.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text).Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.RefComment.Table, schema.RefComment.Text, schema.RefComment.ID)

	tag, err := repository.db.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefComment.Table, schema.RefComment.ID)

	tag, err := repository.db.Exec(context, query, commentID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
