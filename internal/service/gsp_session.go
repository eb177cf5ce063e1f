package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicefin/internal/domain"
	"invoicefin/internal/gspcrypt"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// GSPSessionProvider returns an authenticated Vayana session for a GSP user.
type GSPSessionProvider interface {
	Session(ctx context.Context, user *domain.GSPUser) (*domain.GSPSession, error)
}

type gspSessionProvider struct {
	client port.VayanaClient
	cache  port.KVStore
	ttl    time.Duration
}

// NewGSPSessionProvider creates a session provider that caches tokens in cache
// for ttl, keyed by the GSP username.
func NewGSPSessionProvider(client port.VayanaClient, cache port.KVStore, ttl time.Duration) GSPSessionProvider {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &gspSessionProvider{client: client, cache: cache, ttl: ttl}
}

func tokenKey(username string) string { return "token@" + username }
func orgKey(username string) string   { return "org_id@" + username }

func (p *gspSessionProvider) Session(ctx context.Context, user *domain.GSPUser) (*domain.GSPSession, error) {
	log := logger.WithComponent("gsp_session")

	token, tokenErr := p.cache.Get(ctx, tokenKey(user.Username))
	orgID, orgErr := p.cache.Get(ctx, orgKey(user.Username))
	if tokenErr == nil && orgErr == nil && token != "" && orgID != "" {
		return &domain.GSPSession{Token: token, OrgID: orgID}, nil
	}
	for _, err := range []error{tokenErr, orgErr} {
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Str("username", user.Username).Msg("token cache unavailable, authenticating")
		}
	}

	password, err := gspcrypt.Decrypt(gspcrypt.DeriveKey(user.GSTIN, user.MobileNumber), user.Password)
	if err != nil {
		return nil, fmt.Errorf("decrypting password of gsp user %d: %w", user.ID, err)
	}
	session, err := p.client.Authenticate(ctx, user.Username, password)
	if err != nil {
		return nil, fmt.Errorf("authenticating gsp user %d: %w", user.ID, err)
	}

	if err := p.cache.Set(ctx, tokenKey(user.Username), session.Token, p.ttl); err != nil {
		log.Warn().Err(err).Str("username", user.Username).Msg("caching token failed")
	}
	if err := p.cache.Set(ctx, orgKey(user.Username), session.OrgID, p.ttl); err != nil {
		log.Warn().Err(err).Str("username", user.Username).Msg("caching org id failed")
	}
	return session, nil
}
