package title

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovalyov/revory/internal/catalog/category"
	"github.com/dkovalyov/revory/internal/catalog/genre"
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

// filterClause is shared by List and its count query. Placeholders:
// $1 name substring, $2 year, $3 category slug substring, $4 genre slug substring.
func filterClause() string {
	return fmt.Sprintf(`
		($1 = '' OR t.%s ILIKE '%%' || $1 || '%%')
		AND ($2::int IS NULL OR t.%s = $2)
		AND ($3 = '' OR c.%s ILIKE '%%' || $3 || '%%')
		AND ($4 = '' OR EXISTS (
			SELECT 1 FROM %s tg
			JOIN %s g ON tg.%s = g.%s
			WHERE tg.%s = t.%s AND g.%s ILIKE '%%' || $4 || '%%'
		))`,
		schema.RefTitle.Name,
		schema.RefTitle.Year,
		schema.RefCategory.Slug,
		schema.RefTitleGenre.Table,
		schema.RefGenre.Table, schema.RefTitleGenre.GenreID, schema.RefGenre.ID,
		schema.RefTitleGenre.TitleID, schema.RefTitle.ID, schema.RefGenre.Slug,
	)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT count(*)
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE %s`,
		schema.RefTitle.Table,
		schema.RefCategory.Table, schema.RefTitle.CategoryID, schema.RefCategory.ID,
		filterClause(),
	)

	total := 0
	err := repository.db.QueryRow(context, countQuery,
		filter.Name, filter.Year, filter.Category, filter.Genre).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	listQuery := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       ROUND(AVG(r.%s)::numeric, 2)::float8,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		LEFT JOIN %s r ON r.%s = t.%s
		WHERE %s
		GROUP BY t.%s, c.%s
		ORDER BY t.%s ASC, t.%s ASC
		LIMIT $5 OFFSET $6`,
		schema.RefTitle.ID, schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description,
		schema.RefReview.Score,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefTitle.Table,
		schema.RefCategory.Table, schema.RefTitle.CategoryID, schema.RefCategory.ID,
		schema.RefReview.Table, schema.RefReview.TitleID, schema.RefTitle.ID,
		filterClause(),
		schema.RefTitle.ID, schema.RefCategory.ID,
		schema.RefTitle.Name, schema.RefTitle.ID,
	)

	rows, err := repository.db.Query(context, listQuery,
		filter.Name, filter.Year, filter.Category, filter.Genre,
		params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, t)
	}
	rows.Close()

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       ROUND(AVG(r.%s)::numeric, 2)::float8,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		LEFT JOIN %s r ON r.%s = t.%s
		WHERE t.%s = $1
		GROUP BY t.%s, c.%s`,
		schema.RefTitle.ID, schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description,
		schema.RefReview.Score,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefTitle.Table,
		schema.RefCategory.Table, schema.RefTitle.CategoryID, schema.RefCategory.ID,
		schema.RefReview.Table, schema.RefReview.TitleID, schema.RefTitle.ID,
		schema.RefTitle.ID,
		schema.RefTitle.ID, schema.RefCategory.ID,
	)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_title_by_id")
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, dberr.ErrNotFound
	}

	t, err := scanTitle(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := repository.attachGenres(context, []*Title{t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.RefTitle.Table, schema.RefTitle.ID)

	exists := false
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "title_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) Create(context context.Context, title *Title, genreIDs []int64) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_title")
	}
	defer func() { _ = tx.Rollback(context) }()

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.RefTitle.Table,
		schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description, schema.RefTitle.CategoryID,
		schema.RefTitle.ID)

	var categoryID *int64
	if title.Category != nil {
		categoryID = &title.Category.ID
	}

	err = tx.QueryRow(context, insertQuery, title.Name, title.Year, title.Description, categoryID).Scan(&title.ID)
	if err != nil {
		return dberr.Wrap(err, "create_title")
	}

	if err := linkGenres(context, tx, title.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_title")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, title *Title, genreIDs []int64, replaceGenres bool) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_title")
	}
	defer func() { _ = tx.Rollback(context) }()

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4 WHERE %s = $5`,
		schema.RefTitle.Table,
		schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description, schema.RefTitle.CategoryID,
		schema.RefTitle.ID)

	var categoryID *int64
	if title.Category != nil {
		categoryID = &title.Category.ID
	}

	tag, err := tx.Exec(context, updateQuery, title.Name, title.Year, title.Description, categoryID, title.ID)
	if err != nil {
		return dberr.Wrap(err, "update_title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if replaceGenres {
		clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.RefTitleGenre.Table, schema.RefTitleGenre.TitleID)
		if _, err := tx.Exec(context, clearQuery, title.ID); err != nil {
			return dberr.Wrap(err, "clear_title_genres")
		}
		if err := linkGenres(context, tx, title.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_title")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefTitle.Table, schema.RefTitle.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// linkGenres inserts junction rows inside the caller's transaction.
func linkGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.RefTitleGenre.Table, schema.RefTitleGenre.TitleID, schema.RefTitleGenre.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(context, query, titleID, genreID); err != nil {
			return dberr.Wrap(err, "link_title_genre")
		}
	}

	return nil
}

// scanTitle reads one row of the shared title projection.
func scanTitle(rows pgx.Rows) (*Title, error) {
	t := &Title{Genres: make([]genre.Genre, 0)}

	var categoryID *int64
	var categoryName, categorySlug *string

	err := rows.Scan(
		&t.ID, &t.Name, &t.Year, &t.Description,
		&t.Rating,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_title")
	}

	if categoryID != nil {
		t.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	return t, nil
}

// attachGenres loads the genre lists for a page of titles in one query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	titleIDs := make([]int64, 0, len(titles))
	titleMap := make(map[int64]*Title, len(titles))
	for _, t := range titles {
		titleIDs = append(titleIDs, t.ID)
		titleMap[t.ID] = t
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON tg.%s = g.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.RefTitleGenre.TitleID, schema.RefGenre.ID, schema.RefGenre.Name, schema.RefGenre.Slug,
		schema.RefTitleGenre.Table,
		schema.RefGenre.Table, schema.RefTitleGenre.GenreID, schema.RefGenre.ID,
		schema.RefTitleGenre.TitleID,
		schema.RefGenre.Name,
	)

	rows, err := repository.db.Query(context, query, titleIDs)
	if err != nil {
		return dberr.Wrap(err, "list_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		g := genre.Genre{}
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if t, ok := titleMap[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}

	return nil
}
