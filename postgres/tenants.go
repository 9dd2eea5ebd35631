package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hookbridge/hookbridge/tenants"
)

var _ tenants.Repo = (*TenantRepo)(nil)

// TenantRepo is the Postgres-backed tenants.Repo.
type TenantRepo struct {
	pool *pgxpool.Pool
}

func (r *TenantRepo) Insert(ctx context.Context, tenant *tenants.Tenant) (*tenants.Tenant, error) {
	const q = `
		INSERT INTO tenants (app_id, github_login, github_id, block_list, captcha)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	stored := *tenant
	err := r.pool.QueryRow(ctx, q,
		tenant.AppID, tenant.GitHubLogin, tenant.GitHubID, tenant.BlockList, tenant.Captcha,
	).Scan(&stored.ID)
	if isUniqueViolation(err) {
		return nil, tenants.ErrDuplicateGitHubID
	}
	if err != nil {
		return nil, fmt.Errorf("insert tenant: %w", err)
	}
	return &stored, nil
}

func (r *TenantRepo) Get(ctx context.Context, id int64) (*tenants.Tenant, error) {
	const q = `
		SELECT id, app_id, github_login, github_id, block_list, captcha
		FROM tenants
		WHERE id = $1`

	return r.scanTenant(r.pool.QueryRow(ctx, q, id))
}

func (r *TenantRepo) GetByGitHubID(ctx context.Context, githubID int64) (*tenants.Tenant, error) {
	const q = `
		SELECT id, app_id, github_login, github_id, block_list, captcha
		FROM tenants
		WHERE github_id = $1`

	return r.scanTenant(r.pool.QueryRow(ctx, q, githubID))
}

func (r *TenantRepo) Update(ctx context.Context, tenant *tenants.Tenant) error {
	const q = `
		UPDATE tenants
		SET app_id = $2, block_list = $3, captcha = $4
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, tenant.ID, tenant.AppID, tenant.BlockList, tenant.Captcha)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenants.ErrNotFound
	}
	return nil
}

func (r *TenantRepo) scanTenant(row pgx.Row) (*tenants.Tenant, error) {
	var t tenants.Tenant
	err := row.Scan(&t.ID, &t.AppID, &t.GitHubLogin, &t.GitHubID, &t.BlockList, &t.Captcha)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

// isUniqueViolation reports SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
