package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitfeed/fitfeed/app/observability/metrics"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ ChatRepo = (*PostgresChatRepo)(nil)

type ChatRepo interface {
	ListForOwner(ctx context.Context, owner string) ([]types.ChatMessage, error)
	Create(ctx context.Context, params CreateMessageParams) (*types.ChatMessage, error)
}

type CreateMessageParams struct {
	Content  string
	Owner    string
	Username string
	Role     string
}

type PostgresChatRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresChatRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresChatRepo {
	return &PostgresChatRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresChatRepo) ListForOwner(ctx context.Context, owner string) ([]types.ChatMessage, error) {
	defer metrics.ObserveDBQuery(ctx, "chat.list_for_owner", time.Now())

	rows, err := r.pgpool.Query(ctx,
		`SELECT id, content, owner, COALESCE(username, ''), role, created_at
         FROM chat_messages WHERE owner = $1 ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: query failed: %w", err)
	}
	defer rows.Close()

	result := []types.ChatMessage{}
	for rows.Next() {
		var m types.ChatMessage
		if err := rows.Scan(&m.ID, &m.Content, &m.Owner, &m.Username, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *PostgresChatRepo) Create(ctx context.Context, params CreateMessageParams) (*types.ChatMessage, error) {
	defer metrics.ObserveDBQuery(ctx, "chat.create", time.Now())

	var m types.ChatMessage
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO chat_messages (content, owner, username, role)
         VALUES ($1, $2, NULLIF($3, ''), $4)
         RETURNING id, content, owner, COALESCE(username, ''), role, created_at`,
		params.Content, params.Owner, params.Username, params.Role).
		Scan(&m.ID, &m.Content, &m.Owner, &m.Username, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chat message: insert failed: %w", err)
	}
	return &m, nil
}
