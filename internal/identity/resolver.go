// Package identity resolves inbound identity references (tenant or workflow
// identifiers) to a tenant and a valid calendar-provider credential.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"slotwire/internal/apperr"
	"slotwire/internal/store"
)

// Ref identifies the caller: either a tenant id or a workflow id must be
// set. When both are set they must agree.
type Ref struct {
	TenantID   string
	WorkflowID string
}

// Integration is a resolved tenant calendar connection. TokenSource yields
// valid access tokens, refreshing opaquely as needed.
type Integration struct {
	TenantID    string
	CalendarID  string
	TokenSource oauth2.TokenSource
}

// Resolver maps an identity reference to a tenant integration.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (*Integration, error)
}

// StoreResolver resolves identities against the SQLite integration store,
// refreshing OAuth credentials through the configured endpoint and persisting
// refreshed tokens.
type StoreResolver struct {
	db     *store.DB
	oauth  *oauth2.Config
	logger zerolog.Logger
}

// NewStoreResolver creates a resolver. oauthCfg must carry the provider
// client credentials; an unset client id surfaces as a missing-OAuth
// configuration error at resolve time.
func NewStoreResolver(db *store.DB, oauthCfg *oauth2.Config, logger zerolog.Logger) *StoreResolver {
	return &StoreResolver{
		db:     db,
		oauth:  oauthCfg,
		logger: logger.With().Str("component", "identity").Logger(),
	}
}

// Resolve looks up the integration for ref and wires a refreshing token
// source for it.
func (r *StoreResolver) Resolve(ctx context.Context, ref Ref) (*Integration, error) {
	if ref.TenantID == "" && ref.WorkflowID == "" {
		return nil, &apperr.AuthorizationError{Reason: "no tenant or workflow identifier supplied"}
	}

	integ, err := r.lookup(ctx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.IntegrationNotFoundError{TenantID: ref.TenantID + ref.WorkflowID}
		}
		return nil, err
	}

	// A caller supplying both identifiers must not reach another tenant's
	// calendar through a stale workflow id.
	if ref.TenantID != "" && integ.TenantID != ref.TenantID {
		return nil, &apperr.AuthorizationError{Reason: "workflow does not belong to the supplied tenant"}
	}

	if r.oauth == nil || r.oauth.ClientID == "" {
		return nil, &apperr.IntegrationNotFoundError{TenantID: integ.TenantID}
	}

	saved := &oauth2.Token{
		AccessToken:  integ.AccessToken,
		RefreshToken: integ.RefreshToken,
		Expiry:       integ.TokenExpiry,
	}

	return &Integration{
		TenantID:   integ.TenantID,
		CalendarID: integ.CalendarID,
		TokenSource: &persistingTokenSource{
			base:     r.oauth.TokenSource(ctx, saved),
			db:       r.db,
			tenantID: integ.TenantID,
			last:     saved.AccessToken,
			logger:   r.logger,
		},
	}, nil
}

func (r *StoreResolver) lookup(ctx context.Context, ref Ref) (*store.Integration, error) {
	if ref.TenantID != "" {
		return r.db.GetIntegrationByTenant(ctx, ref.TenantID)
	}
	return r.db.GetIntegrationByWorkflow(ctx, ref.WorkflowID)
}

// persistingTokenSource saves refreshed tokens back to the store so the next
// request starts from a valid credential.
type persistingTokenSource struct {
	base     oauth2.TokenSource
	db       *store.DB
	tenantID string
	logger   zerolog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := tok.AccessToken != s.last
	if changed {
		s.last = tok.AccessToken
	}
	s.mu.Unlock()

	if changed {
		// Persistence is best-effort; the refreshed token is already
		// usable for this request.
		if err := s.db.SaveTokens(context.Background(), s.tenantID, tok.AccessToken, tok.RefreshToken, tok.Expiry); err != nil {
			s.logger.Warn().Err(err).Str("tenant_id", s.tenantID).Msg("persisting refreshed token failed")
		}
	}
	return tok, nil
}
