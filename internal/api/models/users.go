package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values are a closed set; Superuser is an orthogonal override bit.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Role             string    `gorm:"default:'user';not null" json:"role"`
	Superuser        bool      `gorm:"default:false;not null" json:"-"`
	ConfirmationCode *string   `gorm:"column:confirmation_code" json:"-"` // bcrypt hash, never serialized
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Bio              string    `gorm:"type:text" json:"bio"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user holds admin privileges. The superuser
// bit grants admin rights regardless of the stored role.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.Superuser
}

// IsModerator reports whether the user holds the moderator role.
func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (User) TableName() string {
	return "users"
}
