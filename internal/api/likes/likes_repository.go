package likes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitfeed/fitfeed/app/observability/metrics"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ LikesRepo = (*PostgresLikesRepo)(nil)

type LikesRepo interface {
	// Create inserts a like; at most one per (post, owner) is allowed.
	Create(ctx context.Context, postID, owner string) (*types.Like, error)
	Delete(ctx context.Context, postID, owner string) error
	CountForPost(ctx context.Context, postID string) (int, error)
}

type PostgresLikesRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresLikesRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresLikesRepo {
	return &PostgresLikesRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresLikesRepo) Create(ctx context.Context, postID, owner string) (*types.Like, error) {
	defer metrics.ObserveDBQuery(ctx, "likes.create", time.Now())

	var like types.Like
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO likes (post_id, owner) VALUES ($1, $2)
         RETURNING id, post_id, owner, created_at`,
		postID, owner).Scan(&like.ID, &like.PostID, &like.Owner, &like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("create like: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("create like: insert failed: %w", err)
	}
	return &like, nil
}

func (r *PostgresLikesRepo) Delete(ctx context.Context, postID, owner string) error {
	defer metrics.ObserveDBQuery(ctx, "likes.delete", time.Now())

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM likes WHERE post_id = $1 AND owner = $2`, postID, owner)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresLikesRepo) CountForPost(ctx context.Context, postID string) (int, error) {
	defer metrics.ObserveDBQuery(ctx, "likes.count_for_post", time.Now())

	var count int
	err := r.pgpool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
