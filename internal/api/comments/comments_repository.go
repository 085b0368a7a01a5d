package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitfeed/fitfeed/app/observability/metrics"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ CommentsRepo = (*PostgresCommentsRepo)(nil)

type CommentsRepo interface {
	List(ctx context.Context, postID string) ([]types.Comment, error)
	GetByID(ctx context.Context, id string) (*types.Comment, error)
	Create(ctx context.Context, params CreateCommentParams) (*types.Comment, error)
	Update(ctx context.Context, id, comment string) (*types.Comment, error)
	Delete(ctx context.Context, id string) error
}

type CreateCommentParams struct {
	Comment  string
	PostID   string
	Owner    string
	Username string
}

type PostgresCommentsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresCommentsRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresCommentsRepo {
	return &PostgresCommentsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const commentColumns = `id, comment, post_id, owner, username, created_at, updated_at`

func scanComment(row pgx.Row) (*types.Comment, error) {
	var c types.Comment
	err := row.Scan(&c.ID, &c.Comment, &c.PostID, &c.Owner, &c.Username, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}

func (r *PostgresCommentsRepo) List(ctx context.Context, postID string) ([]types.Comment, error) {
	defer metrics.ObserveDBQuery(ctx, "comments.list", time.Now())

	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at ASC`
	args := []interface{}{}
	if postID != "" {
		query = `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`
		args = append(args, postID)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: query failed: %w", err)
	}
	defer rows.Close()

	result := []types.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func (r *PostgresCommentsRepo) GetByID(ctx context.Context, id string) (*types.Comment, error) {
	defer metrics.ObserveDBQuery(ctx, "comments.get_by_id", time.Now())

	return scanComment(r.pgpool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *PostgresCommentsRepo) Create(ctx context.Context, params CreateCommentParams) (*types.Comment, error) {
	defer metrics.ObserveDBQuery(ctx, "comments.create", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO comments (comment, post_id, owner, username)
         VALUES ($1, $2, $3, $4)
         RETURNING `+commentColumns,
		params.Comment, params.PostID, params.Owner, params.Username)
	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (r *PostgresCommentsRepo) Update(ctx context.Context, id, comment string) (*types.Comment, error) {
	defer metrics.ObserveDBQuery(ctx, "comments.update", time.Now())

	return scanComment(r.pgpool.QueryRow(ctx,
		`UPDATE comments SET comment = $2, updated_at = now() WHERE id = $1 RETURNING `+commentColumns,
		id, comment))
}

func (r *PostgresCommentsRepo) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery(ctx, "comments.delete", time.Now())

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
