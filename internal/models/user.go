package models

import (
	"time"
)

const (
	RoleMember  = "member"
	RolePartner = "partner"

	ProviderPassword = "password"
	ProviderIdentity = "identity-provider"
)

// User is a club account. Email is stored lower-cased and is the unique key.
type User struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email           string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name            string    `gorm:"size:255" json:"name"`
	Role            string    `gorm:"size:20;not null;default:'member'" json:"role"`
	MemberID        string    `gorm:"size:10;not null" json:"member_id"`
	CredentialHash  string    `gorm:"column:credential_hash" json:"-"`
	AuthProvider    string    `gorm:"size:30;not null" json:"auth_provider"`
	ProviderSubject string    `gorm:"size:255;index" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleMember || role == RolePartner
}
