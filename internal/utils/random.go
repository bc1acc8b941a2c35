package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
)

func GenerateRefreshToken(userID uint) (string, error) {
	rawToken := RandomString(64)
	hash := HashToken(rawToken)

	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		Revoked:   false,
	}

	if err := database.DB.Create(&rt).Error; err != nil {
		return "", err
	}

	return rawToken, nil
}

// ConsumeRefreshToken revokes a live refresh token and returns its owner.
// Tokens are looked up by hash alone; a miss, an expired row, or an
// already-revoked row all fail the same way.
func ConsumeRefreshToken(token string) (uint, error) {
	hash := HashToken(token)

	var rt models.RefreshToken
	err := database.DB.
		Where("token_hash = ? AND revoked = ? AND expires_at > ?", hash, false, time.Now()).
		First(&rt).Error
	if err != nil {
		return 0, fmt.Errorf("invalid or expired refresh token")
	}

	result := database.DB.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", rt.ID, false).
		Update("revoked", true)
	if result.RowsAffected != 1 {
		return 0, fmt.Errorf("invalid or expired refresh token")
	}

	return rt.UserID, nil
}

func RefreshTokenPair(oldToken string) (string, string, error) {
	userID, err := ConsumeRefreshToken(oldToken)
	if err != nil {
		return "", "", err
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return "", "", fmt.Errorf("user not found")
	}
	if !user.IsActive {
		return "", "", fmt.Errorf("account is inactive")
	}

	accessToken, err := GenerateJWT(user.ID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %v", err)
	}

	newRefreshToken, err := GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %v", err)
	}

	return accessToken, newRefreshToken, nil
}

func RandomString(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		result[i] = chars[num.Int64()]
	}
	return string(result)
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
