package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solucionalbania/club-api/internal/config"
	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/repository"
	"github.com/solucionalbania/club-api/internal/store"
)

const minPasswordLength = 6

// ResetMailer delivers temporary passwords. It reports delivery success and
// never returns transport errors.
type ResetMailer interface {
	SendTemporaryPassword(ctx context.Context, to, name, password string) bool
}

type AuthOptions struct {
	// LinkPolicy decides what identity login does when the email already
	// belongs to a password account: config.LinkPolicyStrict rejects it,
	// config.LinkPolicyPermissive logs the caller into that account.
	LinkPolicy string
	// PlaintextFallback returns the temporary password to the caller when
	// the reset email could not be delivered.
	PlaintextFallback bool
}

type AuthService struct {
	users     *repository.UserRepository
	hasher    *PasswordHasher
	tokens    *TokenIssuer
	identity  IdentityResolver
	passwords PasswordGenerator
	mailer    ResetMailer
	opts      AuthOptions
	now       func() time.Time
}

func NewAuthService(
	users *repository.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenIssuer,
	identity IdentityResolver,
	passwords PasswordGenerator,
	mailer ResetMailer,
	opts AuthOptions,
) *AuthService {
	if passwords == nil {
		passwords = RandomPasswordGenerator{}
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		identity:  identity,
		passwords: passwords,
		mailer:    mailer,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := repository.NormalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := s.newUser(email, req.Name, models.ProviderPassword)
	user.CredentialHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "action", "register")
	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.AuthProvider != models.ProviderPassword {
		return nil, ErrWrongProvider
	}
	if !s.hasher.Verify(req.Password, user.CredentialHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) IdentityLogin(ctx context.Context, req *dto.IdentityLoginRequest) (*dto.AuthResponse, error) {
	if s.identity == nil {
		slog.Error("identity login attempted but no identity provider is configured", "action", "identity_login")
		return nil, ErrIdentityProvider
	}

	claims, err := s.identity.Resolve(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	email := repository.NormalizeEmail(claims.Email)
	if email == "" {
		return nil, ErrMissingEmailClaim
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.AuthProvider != models.ProviderIdentity {
			if s.opts.LinkPolicy != config.LinkPolicyPermissive {
				return nil, ErrWrongProvider
			}
			slog.Warn("identity login into password account", "user_id", user.ID, "action", "identity_login")
		}
		return s.authResponse(user)
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = s.newUser(email, claims.Name, models.ProviderIdentity)
	user.ProviderSubject = claims.Subject

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity user: %w", err)
	}

	slog.Info("user registered via identity provider", "user_id", user.ID, "action", "identity_login")
	return s.authResponse(user)
}

// RequestPasswordReset replaces the stored hash with the hash of a fresh
// temporary password and tries to mail it. When delivery fails and the
// plaintext fallback is enabled the password is returned to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) (*dto.PasswordResetResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	password, err := s.passwords.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateCredentialHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to store temporary password: %w", err)
	}

	if s.mailer != nil && s.mailer.SendTemporaryPassword(ctx, user.Email, user.Name, password) {
		return &dto.PasswordResetResponse{
			Message:   "A temporary password has been sent to your email",
			EmailSent: true,
		}, nil
	}

	if !s.opts.PlaintextFallback {
		return nil, ErrMailUnavailable
	}

	slog.Warn("returning temporary password in response", "user_id", user.ID, "action", "password_reset")
	return &dto.PasswordResetResponse{
		Message:           "Email unavailable, use this temporary password to log in",
		EmailSent:         false,
		TemporaryPassword: password,
	}, nil
}

func (s *AuthService) Verify(ctx context.Context, token string) (*dto.UserResponse, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	return s.lookup(s.users.FindByID(ctx, id))
}

func (s *AuthService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	return s.lookup(s.users.FindByEmail(ctx, email))
}

// UpdateProfile changes name and/or role. Email, provider and credentials
// are never touched here.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := store.Fields{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		fields["role"] = *req.Role
	}

	if err := s.users.UpdateProfile(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AuthService) lookup(user *models.User, err error) (*dto.UserResponse, error) {
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) newUser(email, name, provider string) *models.User {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	now := s.now()
	return &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         models.RoleMember,
		MemberID:     "#" + strings.ToUpper(uuid.NewString()[:6]),
		AuthProvider: provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserResponse(user),
	}, nil
}
