package posts

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

var _ PostsRepo = (*PostgresPostsRepo)(nil)

type PostsRepo interface {
	List(ctx context.Context, owner string) ([]types.Post, error)
	GetByID(ctx context.Context, id string) (*types.Post, error)
	Create(ctx context.Context, params CreatePostParams) (*types.Post, error)
	Update(ctx context.Context, id string, params UpdatePostParams) (*types.Post, error)
	// Delete removes the post together with its comments and likes.
	Delete(ctx context.Context, id string) error
}

type CreatePostParams struct {
	Title    string
	Content  string
	Owner    string
	ImageURL string
}

type UpdatePostParams struct {
	Title    *string
	Content  *string
	ImageURL *string
}

type PostgresPostsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresPostsRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresPostsRepo {
	return &PostgresPostsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const postColumns = `id, title, content, owner, COALESCE(image_url, ''), created_at, updated_at`

func scanPost(row pgx.Row) (*types.Post, error) {
	var p types.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Owner, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}

func (r *PostgresPostsRepo) List(ctx context.Context, owner string) ([]types.Post, error) {
	defer metrics.ObserveDBQuery(ctx, "posts.list", time.Now())

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	args := []interface{}{}
	if owner != "" {
		query = `SELECT ` + postColumns + ` FROM posts WHERE owner = $1 ORDER BY created_at DESC`
		args = append(args, owner)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: query failed: %w", err)
	}
	defer rows.Close()

	result := []types.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func (r *PostgresPostsRepo) GetByID(ctx context.Context, id string) (*types.Post, error) {
	defer metrics.ObserveDBQuery(ctx, "posts.get_by_id", time.Now())

	return scanPost(r.pgpool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *PostgresPostsRepo) Create(ctx context.Context, params CreatePostParams) (*types.Post, error) {
	defer metrics.ObserveDBQuery(ctx, "posts.create", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO posts (title, content, owner, image_url)
         VALUES ($1, $2, $3, NULLIF($4, ''))
         RETURNING `+postColumns,
		params.Title, params.Content, params.Owner, params.ImageURL)
	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (r *PostgresPostsRepo) Update(ctx context.Context, id string, params UpdatePostParams) (*types.Post, error) {
	defer metrics.ObserveDBQuery(ctx, "posts.update", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`UPDATE posts
         SET title     = COALESCE($2, title),
             content   = COALESCE($3, content),
             image_url = COALESCE($4, image_url),
             updated_at = now()
         WHERE id = $1
         RETURNING `+postColumns,
		id, params.Title, params.Content, params.ImageURL)
	return scanPost(row)
}

func (r *PostgresPostsRepo) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery(ctx, "posts.delete", time.Now())

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete post: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post: remove comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post: remove likes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}

	return tx.Commit(ctx)
}
