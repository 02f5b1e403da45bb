package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Integration is a tenant's calendar connection row.
type Integration struct {
	TenantID     string
	WorkflowID   string
	CalendarID   string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

// GetIntegrationByTenant looks up a tenant's calendar integration. Returns
// sql.ErrNoRows when the tenant has none.
func (db *DB) GetIntegrationByTenant(ctx context.Context, tenantID string) (*Integration, error) {
	return db.getIntegration(ctx,
		`SELECT tenant_id, workflow_id, calendar_id, access_token, refresh_token, token_expiry
		 FROM calendar_integrations WHERE tenant_id = ?`, tenantID)
}

// GetIntegrationByWorkflow looks up an integration by its workflow
// identifier.
func (db *DB) GetIntegrationByWorkflow(ctx context.Context, workflowID string) (*Integration, error) {
	return db.getIntegration(ctx,
		`SELECT tenant_id, workflow_id, calendar_id, access_token, refresh_token, token_expiry
		 FROM calendar_integrations WHERE workflow_id = ?`, workflowID)
}

func (db *DB) getIntegration(ctx context.Context, query, arg string) (*Integration, error) {
	var integ Integration
	var expiry sql.NullTime
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&integ.TenantID, &integ.WorkflowID, &integ.CalendarID,
		&integ.AccessToken, &integ.RefreshToken, &expiry,
	)
	if err != nil {
		return nil, err
	}
	if expiry.Valid {
		integ.TokenExpiry = expiry.Time
	}
	return &integ, nil
}

// UpsertIntegration creates or replaces a tenant's calendar integration.
func (db *DB) UpsertIntegration(ctx context.Context, integ *Integration) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO calendar_integrations
			(tenant_id, workflow_id, calendar_id, access_token, refresh_token, token_expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(tenant_id) DO UPDATE SET
			workflow_id = excluded.workflow_id,
			calendar_id = excluded.calendar_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			updated_at = CURRENT_TIMESTAMP`,
		integ.TenantID, integ.WorkflowID, integ.CalendarID,
		integ.AccessToken, integ.RefreshToken, integ.TokenExpiry,
	)
	if err != nil {
		return fmt.Errorf("upsert integration for %s: %w", integ.TenantID, err)
	}
	return nil
}

// SaveTokens persists a refreshed credential for a tenant.
func (db *DB) SaveTokens(ctx context.Context, tenantID, accessToken, refreshToken string, expiry time.Time) error {
	_, err := db.ExecContext(ctx, `
		UPDATE calendar_integrations
		SET access_token = ?, refresh_token = ?, token_expiry = ?, updated_at = CURRENT_TIMESTAMP
		WHERE tenant_id = ?`,
		accessToken, refreshToken, expiry, tenantID,
	)
	if err != nil {
		return fmt.Errorf("save tokens for %s: %w", tenantID, err)
	}
	return nil
}
