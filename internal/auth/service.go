package auth

import (
	"fmt"
	"strings"

	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/utils"
)

// NormalizeIdentifier canonicalizes a login identifier. Email addresses
// are lowercased; national-ID strings keep digits only.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}

	var b strings.Builder
	for _, r := range identifier {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return identifier
	}
	return b.String()
}

// AuthenticateUser verifies an identifier/password pair against the
// stored hash. Inactive accounts cannot log in.
func AuthenticateUser(identifier, password string) (*models.User, error) {
	var user models.User
	err := database.DB.
		Where("email = ?", NormalizeIdentifier(identifier)).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is inactive")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	return &user, nil
}

// IssueTokenPair creates a short-lived access token and a stored,
// rotating refresh token for the user.
func IssueTokenPair(user *models.User) (string, string, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
