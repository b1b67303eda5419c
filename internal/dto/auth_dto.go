package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/solucionalbania/club-api/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate checks shape only; the minimum password length is a domain rule
// enforced by the account service after the duplicate-email check.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(0, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(0, 256)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(0, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(0, 256)),
	)
}

type IdentityLoginRequest struct {
	IDToken string `json:"id_token"`
}

func (r IdentityLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required, validation.Length(0, 8192)),
	)
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (r PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(0, 255)),
	)
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(models.RoleMember, models.RolePartner)),
	)
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	MemberID     string    `json:"member_id"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		MemberID:     u.MemberID,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
	}
}

type PasswordResetResponse struct {
	Message           string `json:"message"`
	EmailSent         bool   `json:"email_sent"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
