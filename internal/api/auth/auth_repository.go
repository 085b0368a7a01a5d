package auth

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

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the persistence contract for the auth subsystem. The
// refresh-token set lives in a TEXT[] column on users; every mutation is a
// single conditional UPDATE so concurrent refresh/logout for the same user
// never race a read-modify-write cycle.
type AuthRepo interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	UsernameExists(ctx context.Context, username string, caseInsensitive bool) (bool, error)

	AppendRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken atomically replaces oldToken with newToken in the
	// user's set. Returns false when oldToken was not a member.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)
	// RemoveRefreshToken atomically removes token from the user's set.
	// Returns false when token was not a member.
	RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error)
	ClearRefreshTokens(ctx context.Context, userID string) error
}

// CreateUserParams carries the fields persisted at registration. Password is
// already hashed by the service.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Username     string
	DisplayName  string
	AvatarURL    string
}

// PGXQuerier is the slice of pgxpool.Pool the repo needs. Tests substitute a
// pgxmock pool for it.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PGXQuerier = (*pgxpool.Pool)(nil)

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool PGXQuerier
}

func NewPostgresAuthRepo(pgpool PGXQuerier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, email, password_hash, COALESCE(username, ''), COALESCE(display_name, ''), COALESCE(avatar_url, ''), refresh_tokens, created_at, updated_at`

func scanUser(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Username, &u.DisplayName,
		&u.AvatarURL, &u.RefreshTokens, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, params CreateUserParams) (*types.UserAuth, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.create_user", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, username, display_name, avatar_url)
         VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
         RETURNING `+userColumns,
		params.Email, params.PasswordHash, params.Username, params.DisplayName, params.AvatarURL)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("create user: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("create user: insert failed: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.get_user_by_email", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.get_user_by_id", time.Now())

	row := r.pgpool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (r *PostgresAuthRepo) UsernameExists(ctx context.Context, username string, caseInsensitive bool) (bool, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.username_exists", time.Now())

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if caseInsensitive {
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1))`
	}
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("username exists: query failed: %w", err)
	}
	return exists, nil
}

func (r *PostgresAuthRepo) AppendRefreshToken(ctx context.Context, userID, token string) error {
	defer metrics.ObserveDBQuery(ctx, "auth.append_refresh_token", time.Now())

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET refresh_tokens = array_append(refresh_tokens, $2), updated_at = now()
         WHERE id = $1`,
		userID, token)
	if err != nil {
		return fmt.Errorf("append refresh token: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresAuthRepo) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.rotate_refresh_token", time.Now())

	// The membership check in the WHERE clause is the rotation precondition:
	// zero rows affected means oldToken was already consumed.
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users
         SET refresh_tokens = array_append(array_remove(refresh_tokens, $2), $3), updated_at = now()
         WHERE id = $1 AND $2 = ANY(refresh_tokens)`,
		userID, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: db update failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresAuthRepo) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	defer metrics.ObserveDBQuery(ctx, "auth.remove_refresh_token", time.Now())

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET refresh_tokens = array_remove(refresh_tokens, $2), updated_at = now()
         WHERE id = $1 AND $2 = ANY(refresh_tokens)`,
		userID, token)
	if err != nil {
		return false, fmt.Errorf("remove refresh token: db update failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresAuthRepo) ClearRefreshTokens(ctx context.Context, userID string) error {
	defer metrics.ObserveDBQuery(ctx, "auth.clear_refresh_tokens", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`UPDATE users SET refresh_tokens = '{}', updated_at = now() WHERE id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("clear refresh tokens: db update failed: %w", err)
	}
	return nil
}
