package user

import (
	"fmt"

	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/utils"
	"gorm.io/gorm"
)

// CreateAccount registers a new account: normalizes the login
// identifier, hashes the password and stores the record. The plaintext
// password never reaches the database.
func CreateAccount(db *gorm.DB, identifier, name, password string, role models.Role) (*models.User, error) {
	identifier = auth.NormalizeIdentifier(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier must not be empty")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Email:    identifier,
		Name:     name,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}

	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}

	return &u, nil
}

// DeleteAccount removes the user and clears the owning profile's user
// reference in the same transaction. The profile row survives with a
// NULL reference.
func DeleteAccount(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}

// IdentifierTaken reports whether another account already uses the
// normalized identifier.
func IdentifierTaken(db *gorm.DB, identifier string, excludeID uint) bool {
	var existing models.User
	query := db.Where("email = ?", auth.NormalizeIdentifier(identifier))
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	return query.First(&existing).Error == nil
}
