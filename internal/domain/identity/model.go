package identity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin         = "admin"
	RoleDoctor        = "doctor"
	RoleLabTechnician = "lab_technician"
	RoleRecipient     = "recipient"
)

var validRoles = map[string]bool{
	RoleAdmin: true, RoleDoctor: true, RoleLabTechnician: true, RoleRecipient: true,
}

// User maps to the users table. PasswordHash is nullable: invited users get
// a row without credentials and set a password later.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserNumber   int       `db:"user_number" json:"userNumber"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	Age          *int      `db:"age" json:"age,omitempty"`
	Image        *string   `db:"image" json:"image,omitempty"`
	RefreshToken *string   `db:"refresh_token" json:"-"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
