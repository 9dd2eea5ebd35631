package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hookbridge/hookbridge/wechat"
)

var _ wechat.Repo = (*WeChatRepo)(nil)

// WeChatRepo is the Postgres-backed wechat.Repo.
type WeChatRepo struct {
	pool *pgxpool.Pool
}

func (r *WeChatRepo) GetByTenantID(ctx context.Context, tenantID int64) (*wechat.Config, error) {
	const q = `
		SELECT id, tenant_id, corp_id, agent_id, secret, bot_token, chat_id
		FROM wechat_works
		WHERE tenant_id = $1`

	var c wechat.Config
	err := r.pool.QueryRow(ctx, q, tenantID).Scan(
		&c.ID, &c.TenantID, &c.CorpID, &c.AgentID, &c.Secret, &c.BotToken, &c.ChatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, wechat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wechat config: %w", err)
	}
	return &c, nil
}

func (r *WeChatRepo) Upsert(ctx context.Context, config *wechat.Config) (*wechat.Config, error) {
	const q = `
		INSERT INTO wechat_works (tenant_id, corp_id, agent_id, secret, bot_token, chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE
		SET corp_id = EXCLUDED.corp_id,
		    agent_id = EXCLUDED.agent_id,
		    secret = EXCLUDED.secret,
		    bot_token = EXCLUDED.bot_token,
		    chat_id = EXCLUDED.chat_id
		RETURNING id`

	stored := *config
	err := r.pool.QueryRow(ctx, q,
		config.TenantID, config.CorpID, config.AgentID, config.Secret, config.BotToken, config.ChatID,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("upsert wechat config: %w", err)
	}
	return &stored, nil
}
