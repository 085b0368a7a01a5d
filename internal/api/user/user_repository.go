package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserAuth, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresUserRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const profileColumns = `id, email, COALESCE(username, ''), COALESCE(display_name, ''), COALESCE(avatar_url, ''), created_at, updated_at`

func scanProfile(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	defer metrics.ObserveDBQuery(ctx, "user.get_user_by_id", time.Now())

	return scanProfile(r.pgpool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM users WHERE id = $1`, userID))
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserAuth, error) {
	defer metrics.ObserveDBQuery(ctx, "user.update_profile", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`UPDATE users
         SET username     = COALESCE(NULLIF($2, ''), username),
             display_name = COALESCE($3, display_name),
             avatar_url   = COALESCE($4, avatar_url),
             updated_at   = now()
         WHERE id = $1
         RETURNING `+profileColumns,
		userID, params.Username, params.DisplayName, params.AvatarURL)

	user, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("update profile: %w", types.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}
