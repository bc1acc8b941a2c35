package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Address is owned by exactly one referencing record (profile or
// pregnant-woman) and is removed together with it.
type Address struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Street         string  `gorm:"size:255" json:"street"`
	ReferencePoint *string `gorm:"size:255" json:"reference_point,omitempty"`
	City           string  `gorm:"size:255" json:"city"`
	State          string  `gorm:"size:255" json:"state"`
	ZipCode        string  `gorm:"size:10" json:"zip_code"`
}

// UserProfile is the one-to-one extension of User. UserID is nullable:
// deleting the account clears the reference but keeps the profile.
// Profiles are soft-deleted; at most one live profile exists per user
// (enforced in handlers, backed by a partial unique index on postgres).
type UserProfile struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          *uint           `gorm:"index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Name            string          `gorm:"size:255" json:"name"`
	FullName        string          `gorm:"size:255" json:"full_name"`
	SUSCardNumber   *string         `gorm:"uniqueIndex;size:20" json:"sus_card_number"`
	BirthDate       *datatypes.Date `json:"birth_date"`
	NISNumber       *string         `gorm:"uniqueIndex;size:20" json:"nis_number"`
	PreferedName    *string         `gorm:"size:255" json:"prefered_name,omitempty"`
	Race            string          `gorm:"size:50" json:"race"`
	Ethnicity       string          `gorm:"size:50" json:"ethnicity"`
	WorkOutsideHome bool            `gorm:"default:false" json:"work_outside_home"`
	Occupation      *string         `gorm:"size:255" json:"occupation,omitempty"`
	MobilePhone     string          `gorm:"size:20" json:"mobile_phone"`
	Email           *string         `gorm:"size:255" json:"email,omitempty"`
	DueDate         *datatypes.Date `json:"due_date"`
	AddressID       *uint           `json:"-"`
	Address         *Address        `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Image           *string         `gorm:"size:255" json:"image"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
