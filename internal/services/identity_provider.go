package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// IdentityClaims are the claims extracted from a verified third-party
// identity token.
type IdentityClaims struct {
	Email   string
	Name    string
	Subject string
}

// IdentityResolver validates an identity token with its issuer.
type IdentityResolver interface {
	Resolve(ctx context.Context, identityToken string) (*IdentityClaims, error)
}

type tokenInfoResponse struct {
	Sub           string      `json:"sub"`
	Aud           string      `json:"aud"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	EmailVerified interface{} `json:"email_verified"`
}

// TokenInfoResolver asks a tokeninfo endpoint (Google by default) to
// validate the token. Any failure is reported as ErrIdentityProvider; the
// cause is logged, never returned.
type TokenInfoResolver struct {
	httpClient *http.Client
	endpoint   string
	clientID   string
}

func NewTokenInfoResolver(endpoint, clientID string, timeout time.Duration) *TokenInfoResolver {
	return &TokenInfoResolver{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		clientID:   clientID,
	}
}

func (r *TokenInfoResolver) Resolve(ctx context.Context, identityToken string) (*IdentityClaims, error) {
	if strings.TrimSpace(identityToken) == "" {
		return nil, ErrIdentityProvider
	}

	info, err := r.fetch(ctx, identityToken)
	if err != nil {
		slog.Warn("identity token verification failed", "error", err, "action", "identity_login")
		return nil, ErrIdentityProvider
	}

	if r.clientID != "" && info.Aud != r.clientID {
		slog.Warn("identity token audience mismatch", "aud", info.Aud, "action", "identity_login")
		return nil, ErrIdentityProvider
	}
	if info.Email == "" {
		return nil, ErrMissingEmailClaim
	}

	return &IdentityClaims{Email: info.Email, Name: info.Name, Subject: info.Sub}, nil
}

func (r *TokenInfoResolver) fetch(ctx context.Context, identityToken string) (*tokenInfoResponse, error) {
	endpoint, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid tokeninfo endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("id_token", identityToken)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo endpoint returned status %d", resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo: %w", err)
	}
	return &info, nil
}

// OIDCResolver verifies ID tokens locally against the issuer's published
// keys, discovered once at startup.
type OIDCResolver struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCResolver(ctx context.Context, issuerURL, clientID string) (*OIDCResolver, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover identity provider %s: %w", issuerURL, err)
	}
	return newOIDCResolver(provider.Verifier(&oidc.Config{
		ClientID:          clientID,
		SkipClientIDCheck: clientID == "",
	})), nil
}

func newOIDCResolver(verifier *oidc.IDTokenVerifier) *OIDCResolver {
	return &OIDCResolver{verifier: verifier}
}

func (r *OIDCResolver) Resolve(ctx context.Context, identityToken string) (*IdentityClaims, error) {
	idToken, err := r.verifier.Verify(ctx, identityToken)
	if err != nil {
		slog.Warn("identity token verification failed", "error", err, "action", "identity_login")
		return nil, ErrIdentityProvider
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		slog.Warn("identity token claims unreadable", "error", err, "action", "identity_login")
		return nil, ErrIdentityProvider
	}
	if claims.Email == "" {
		return nil, ErrMissingEmailClaim
	}

	return &IdentityClaims{Email: claims.Email, Name: claims.Name, Subject: idToken.Subject}, nil
}
