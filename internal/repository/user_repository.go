package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/store"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user with this email already exists")
)

// UserRepository is the account directory. Every email passed in is
// normalized before it reaches the store.
type UserRepository struct {
	users store.Collection[models.User]
}

func NewUserRepository(users store.Collection[models.User]) *UserRepository {
	return &UserRepository{users: users}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, store.Filter{"email": NormalizeEmail(email)})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, store.Filter{"id": id})
}

// Create inserts a new user. The existence check done by callers and this
// insert are not atomic; the unique index on email is what rejects the
// loser of a concurrent registration, surfaced here as ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	err := r.users.Insert(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return ErrDuplicateUser
	}
	return err
}

func (r *UserRepository) UpdateCredentialHash(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, store.Fields{"credential_hash": hash})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields store.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	return r.update(ctx, id, fields)
}

func (r *UserRepository) findOne(ctx context.Context, filter store.Filter) (*models.User, error) {
	user, err := r.users.FindOne(ctx, filter)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) update(ctx context.Context, id string, fields store.Fields) error {
	n, err := r.users.Update(ctx, store.Filter{"id": id}, fields)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
