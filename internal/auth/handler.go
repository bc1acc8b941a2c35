package auth

import (
	"github.com/matercare/api/internal/response"
	"github.com/matercare/api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

const accessTokenTTLSeconds = 900

// TokenHandler issues an access/refresh pair for a valid
// identifier/password combination.
func TokenHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email":    "email is required",
			"password": "password is required",
		})
	}

	user, err := AuthenticateUser(body.Email, body.Password)
	if err != nil {
		return response.Unauthorized(c, "Invalid credentials")
	}

	accessToken, refreshToken, err := IssueTokenPair(user)
	if err != nil {
		return response.InternalError(c, "Failed to issue tokens")
	}

	return response.Success(c, fiber.Map{
		"access":     accessToken,
		"refresh":    refreshToken,
		"expires_in": accessTokenTTLSeconds,
	}, "Login successful")
}

// RefreshHandler rotates a refresh token and returns a fresh pair.
func RefreshHandler(c *fiber.Ctx) error {
	var body struct {
		Refresh string `json:"refresh"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Refresh == "" {
		return response.ValidationError(c, map[string]string{
			"refresh": "refresh is required",
		})
	}

	accessToken, newRefreshToken, err := utils.RefreshTokenPair(body.Refresh)
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}

	return response.Success(c, fiber.Map{
		"access":     accessToken,
		"refresh":    newRefreshToken,
		"expires_in": accessTokenTTLSeconds,
	}, "Token refreshed successfully")
}

// VerifyHandler checks an access token without touching the database.
func VerifyHandler(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Token == "" {
		return response.ValidationError(c, map[string]string{
			"token": "token is required",
		})
	}

	if _, _, err := utils.ParseJWT(body.Token); err != nil {
		return response.Unauthorized(c, "Invalid or expired token")
	}

	return response.Success(c, nil, "Token is valid")
}
