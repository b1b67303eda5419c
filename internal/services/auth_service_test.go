package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/solucionalbania/club-api/internal/config"
	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/repository"
	"github.com/solucionalbania/club-api/internal/store"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "secret1"
	tempPassword = "Tmp0000001"
)

type fakeResolver struct {
	claims *IdentityClaims
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, identityToken string) (*IdentityClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := *f.claims
	return &c, nil
}

type sentMail struct {
	to, name, password string
}

type fakeMailer struct {
	mu      sync.Mutex
	deliver bool
	sent    []sentMail
}

func (f *fakeMailer) SendTemporaryPassword(ctx context.Context, to, name, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, name: name, password: password})
	return f.deliver
}

type fixedPasswords string

func (p fixedPasswords) Generate() (string, error) { return string(p), nil }

type authSuite struct {
	suite.Suite
	ctx      context.Context
	users    *store.MemoryCollection[models.User]
	repo     *repository.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenIssuer
	resolver *fakeResolver
	mailer   *fakeMailer
	opts     AuthOptions
	service  *AuthService
}

func (s *authSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = store.NewMemoryCollection[models.User]("email")
	s.repo = repository.NewUserRepository(s.users)
	s.hasher = NewPasswordHasher(bcrypt.MinCost)
	s.tokens = NewTokenIssuer("test-secret", 720*time.Hour, nil)
	s.resolver = &fakeResolver{claims: &IdentityClaims{Email: "Ben@Gmail.com", Name: "Ben", Subject: "g-42"}}
	s.mailer = &fakeMailer{deliver: true}
	s.opts = AuthOptions{LinkPolicy: config.LinkPolicyStrict, PlaintextFallback: true}
	s.rebuild()
}

func (s *authSuite) rebuild() {
	s.service = NewAuthService(s.repo, s.hasher, s.tokens, s.resolver, fixedPasswords(tempPassword), s.mailer, s.opts)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(authSuite))
}

func (s *authSuite) register(email, password string) *dto.AuthResponse {
	resp, err := s.service.Register(s.ctx, &dto.RegisterRequest{Email: email, Password: password, Name: "Ana"})
	s.Require().NoError(err)
	return resp
}

func (s *authSuite) login(email, password string) (*dto.AuthResponse, error) {
	return s.service.Login(s.ctx, &dto.LoginRequest{Email: email, Password: password})
}

func (s *authSuite) TestRegisterCreatesMemberAccount() {
	resp := s.register("  Ana@Example.com ", testPassword)

	s.Equal("bearer", resp.TokenType)
	s.Equal(testEmail, resp.User.Email)
	s.Equal("Ana", resp.User.Name)
	s.Equal(models.RoleMember, resp.User.Role)
	s.Equal(models.ProviderPassword, resp.User.AuthProvider)
	s.True(strings.HasPrefix(resp.User.MemberID, "#"))
	s.Len(resp.User.MemberID, 7)

	claims, err := s.tokens.Verify(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, claims.SubjectID)
	s.Equal(testEmail, claims.Email)

	stored, err := s.repo.FindByEmail(s.ctx, testEmail)
	s.Require().NoError(err)
	s.NotEqual(testPassword, stored.CredentialHash)
	s.True(s.hasher.Verify(testPassword, stored.CredentialHash))
}

func (s *authSuite) TestRegisterDuplicateEmailIgnoresCase() {
	s.register(testEmail, testPassword)

	_, err := s.service.Register(s.ctx, &dto.RegisterRequest{Email: "ANA@example.com", Password: "another1", Name: "Other"})
	s.ErrorIs(err, ErrEmailTaken)
	s.Equal(1, s.users.Len())
}

func (s *authSuite) TestRegisterDuplicateCheckedBeforePasswordLength() {
	s.register(testEmail, testPassword)

	_, err := s.service.Register(s.ctx, &dto.RegisterRequest{Email: testEmail, Password: "abc", Name: "Ana"})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *authSuite) TestRegisterWeakPassword() {
	_, err := s.service.Register(s.ctx, &dto.RegisterRequest{Email: testEmail, Password: "12345", Name: "Ana"})
	s.ErrorIs(err, ErrWeakPassword)
	s.Equal(KindValidation, KindOf(err))
	s.Equal(0, s.users.Len())
}

func (s *authSuite) TestRegisterPasswordTooLong() {
	for _, password := range []string{
		strings.Repeat("a", 100),
		strings.Repeat("é", 40),
	} {
		_, err := s.service.Register(s.ctx, &dto.RegisterRequest{Email: testEmail, Password: password, Name: "Ana"})
		s.ErrorIs(err, ErrPasswordTooLong)
		s.Equal(KindValidation, KindOf(err))
	}
	s.Equal(0, s.users.Len())

	s.register(testEmail, strings.Repeat("a", 72))
}

func (s *authSuite) TestConcurrentRegistrationCreatesOneAccount() {
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.Register(s.ctx, &dto.RegisterRequest{Email: testEmail, Password: testPassword, Name: "Ana"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, ErrEmailTaken)
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.users.Len())
}

func (s *authSuite) TestLogin() {
	registered := s.register(testEmail, testPassword)

	resp, err := s.login("ANA@example.com", testPassword)
	s.Require().NoError(err)
	s.Equal(registered.User.ID, resp.User.ID)

	claims, err := s.tokens.Verify(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(registered.User.ID, claims.SubjectID)
}

func (s *authSuite) TestLoginFailuresLookAlike() {
	s.register(testEmail, testPassword)

	_, wrongPassword := s.login(testEmail, "wrong-password")
	_, unknownEmail := s.login("nobody@example.com", testPassword)

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownEmail, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownEmail.Error())
}

func (s *authSuite) TestLoginIdentityAccountWithPassword() {
	_, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)

	_, err = s.login("ben@gmail.com", "anything")
	s.ErrorIs(err, ErrWrongProvider)
}

func (s *authSuite) TestIdentityLoginCreatesThenReusesAccount() {
	first, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)
	s.Equal("ben@gmail.com", first.User.Email)
	s.Equal("Ben", first.User.Name)
	s.Equal(models.ProviderIdentity, first.User.AuthProvider)
	s.Equal(models.RoleMember, first.User.Role)

	stored, err := s.repo.FindByID(s.ctx, first.User.ID)
	s.Require().NoError(err)
	s.Equal("g-42", stored.ProviderSubject)
	s.Empty(stored.CredentialHash)

	second, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)
	s.Equal(first.User.ID, second.User.ID)
	s.Equal(1, s.users.Len())
}

func (s *authSuite) TestIdentityLoginDefaultsNameToEmailLocalPart() {
	s.resolver.claims = &IdentityClaims{Email: "carla@example.com", Subject: "g-1"}

	resp, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)
	s.Equal("carla", resp.User.Name)
}

func (s *authSuite) TestIdentityLoginStrictPolicyRejectsPasswordAccount() {
	s.register(testEmail, testPassword)
	s.resolver.claims = &IdentityClaims{Email: testEmail, Name: "Ana", Subject: "g-1"}

	_, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.ErrorIs(err, ErrWrongProvider)
}

func (s *authSuite) TestIdentityLoginPermissivePolicyLogsIntoPasswordAccount() {
	s.opts.LinkPolicy = config.LinkPolicyPermissive
	s.rebuild()
	registered := s.register(testEmail, testPassword)
	s.resolver.claims = &IdentityClaims{Email: testEmail, Name: "Ana", Subject: "g-1"}

	resp, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)
	s.Equal(registered.User.ID, resp.User.ID)
	s.Equal(models.ProviderPassword, resp.User.AuthProvider)
}

func (s *authSuite) TestIdentityLoginResolverFailure() {
	s.resolver.err = ErrIdentityProvider

	_, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.ErrorIs(err, ErrIdentityProvider)
	s.Equal(0, s.users.Len())
}

func (s *authSuite) TestIdentityLoginMissingEmail() {
	s.resolver.claims = &IdentityClaims{Subject: "g-1"}

	_, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.ErrorIs(err, ErrMissingEmailClaim)
}

func (s *authSuite) TestIdentityLoginWithoutResolver() {
	s.service = NewAuthService(s.repo, s.hasher, s.tokens, nil, nil, s.mailer, s.opts)

	_, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.ErrorIs(err, ErrIdentityProvider)
}

func (s *authSuite) TestPasswordResetMailed() {
	s.register(testEmail, testPassword)

	resp, err := s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: "Ana@Example.com"})
	s.Require().NoError(err)
	s.True(resp.EmailSent)
	s.Empty(resp.TemporaryPassword)

	s.Require().Len(s.mailer.sent, 1)
	s.Equal(sentMail{to: testEmail, name: "Ana", password: tempPassword}, s.mailer.sent[0])

	_, err = s.login(testEmail, testPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.login(testEmail, tempPassword)
	s.NoError(err)
}

func (s *authSuite) TestPasswordResetPlaintextFallback() {
	s.mailer.deliver = false
	s.register(testEmail, testPassword)

	resp, err := s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: testEmail})
	s.Require().NoError(err)
	s.False(resp.EmailSent)
	s.Equal(tempPassword, resp.TemporaryPassword)

	_, err = s.login(testEmail, resp.TemporaryPassword)
	s.NoError(err)
}

func (s *authSuite) TestPasswordResetWithoutMailer() {
	s.service = NewAuthService(s.repo, s.hasher, s.tokens, s.resolver, fixedPasswords(tempPassword), nil, s.opts)
	s.register(testEmail, testPassword)

	resp, err := s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: testEmail})
	s.Require().NoError(err)
	s.False(resp.EmailSent)
	s.Equal(tempPassword, resp.TemporaryPassword)
}

func (s *authSuite) TestPasswordResetFallbackDisabled() {
	s.mailer.deliver = false
	s.opts.PlaintextFallback = false
	s.rebuild()
	s.register(testEmail, testPassword)

	resp, err := s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: testEmail})
	s.Nil(resp)
	s.ErrorIs(err, ErrMailUnavailable)
	s.Equal(KindDependency, KindOf(err))

	// The credential was already replaced before delivery was attempted.
	_, err = s.login(testEmail, testPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *authSuite) TestPasswordResetUnknownEmail() {
	_, err := s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: "nobody@example.com"})
	s.ErrorIs(err, ErrAccountNotFound)
	s.Empty(s.mailer.sent)
}

func (s *authSuite) TestPasswordResetIdentityAccountCanThenUsePassword() {
	resp, err := s.service.IdentityLogin(s.ctx, &dto.IdentityLoginRequest{IDToken: "tok"})
	s.Require().NoError(err)

	_, err = s.service.RequestPasswordReset(s.ctx, &dto.PasswordResetRequest{Email: resp.User.Email})
	s.Require().NoError(err)

	// Provider is unchanged, so password login is still refused.
	_, err = s.login(resp.User.Email, tempPassword)
	s.ErrorIs(err, ErrWrongProvider)
}

func (s *authSuite) TestVerify() {
	registered := s.register(testEmail, testPassword)

	user, err := s.service.Verify(s.ctx, registered.AccessToken)
	s.Require().NoError(err)
	s.Equal(registered.User, *user)
}

func (s *authSuite) TestVerifyRejectsBadTokens() {
	_, err := s.service.Verify(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrInvalidToken)

	other := NewTokenIssuer("other-secret", time.Hour, nil)
	forged, err := other.Issue("u-1", testEmail)
	s.Require().NoError(err)
	_, err = s.service.Verify(s.ctx, forged)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *authSuite) TestVerifyDeletedAccount() {
	registered := s.register(testEmail, testPassword)
	n, err := s.users.Delete(s.ctx, store.Filter{"id": registered.User.ID})
	s.Require().NoError(err)
	s.Require().EqualValues(1, n)

	_, err = s.service.Verify(s.ctx, registered.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *authSuite) TestGetByEmailAndID() {
	registered := s.register(testEmail, testPassword)

	byEmail, err := s.service.GetByEmail(s.ctx, "ANA@EXAMPLE.COM")
	s.Require().NoError(err)
	s.Equal(registered.User.ID, byEmail.ID)

	byID, err := s.service.GetByID(s.ctx, registered.User.ID)
	s.Require().NoError(err)
	s.Equal(testEmail, byID.Email)

	_, err = s.service.GetByID(s.ctx, "missing")
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *authSuite) TestUpdateProfile() {
	registered := s.register(testEmail, testPassword)
	name, role := "  Ana Hoxha ", models.RolePartner

	updated, err := s.service.UpdateProfile(s.ctx, registered.User.ID, &dto.UpdateProfileRequest{Name: &name, Role: &role})
	s.Require().NoError(err)
	s.Equal("Ana Hoxha", updated.Name)
	s.Equal(models.RolePartner, updated.Role)
	s.Equal(testEmail, updated.Email)

	_, err = s.login(testEmail, testPassword)
	s.NoError(err)
}

func (s *authSuite) TestUpdateProfileErrors() {
	registered := s.register(testEmail, testPassword)
	bad := "admin"

	_, err := s.service.UpdateProfile(s.ctx, registered.User.ID, &dto.UpdateProfileRequest{Role: &bad})
	s.ErrorIs(err, ErrInvalidRole)

	name := "Ghost"
	_, err = s.service.UpdateProfile(s.ctx, "missing", &dto.UpdateProfileRequest{Name: &name})
	s.ErrorIs(err, ErrAccountNotFound)

	_, err = s.service.UpdateProfile(s.ctx, "missing", &dto.UpdateProfileRequest{})
	s.True(errors.Is(err, ErrAccountNotFound))
}
