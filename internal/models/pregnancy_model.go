package models

import (
	"time"

	"gorm.io/datatypes"
)

type EmergencyContact struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number"`
	Relationship string `gorm:"size:255" json:"relationship"`
}

// PregnantWoman is the maternal-health record. Address and
// EmergencyContact are owned one-to-one and deleted with the record.
type PregnantWoman struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	FullName           string           `gorm:"size:255" json:"full_name"`
	SUSCardNumber      string           `gorm:"uniqueIndex;size:20" json:"sus_card_number"`
	BirthDate          datatypes.Date   `json:"birth_date"`
	NISNumber          *string          `gorm:"uniqueIndex;size:20" json:"nis_number"`
	PreferedName       *string          `gorm:"size:255" json:"prefered_name,omitempty"`
	Race               string           `gorm:"size:50" json:"race"`
	Ethnicity          string           `gorm:"size:50" json:"ethnicity"`
	WorkOutsideHome    bool             `gorm:"default:false" json:"work_outside_home"`
	Occupation         *string          `gorm:"size:255" json:"occupation,omitempty"`
	MobilePhone        string           `gorm:"size:20" json:"mobile_phone"`
	Email              *string          `gorm:"size:255" json:"email,omitempty"`
	DueDate            datatypes.Date   `json:"due_date"`
	AddressID          uint             `json:"-"`
	Address            Address          `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"address"`
	EmergencyContactID uint             `json:"-"`
	EmergencyContact   EmergencyContact `gorm:"foreignKey:EmergencyContactID;constraint:OnDelete:CASCADE" json:"emergency_contact"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}
