package models

import (
	"time"
)

// Role is the explicit role tier carried on every account.
// staff manages ordinary user accounts, admin manages everyone.
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// IsStaff reports whether the role may manage ordinary user accounts.
// Admin is a superset of staff.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// IsAdmin reports whether the role may manage staff and admin accounts.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleStaff || r == RoleAdmin
}

// User is the identity record. Email holds the normalized login
// identifier: an email address or a national-ID digit string.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Password  string    `gorm:"size:255" json:"-"`
	Role      Role      `gorm:"size:20;default:'user'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	Image     *string   `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
