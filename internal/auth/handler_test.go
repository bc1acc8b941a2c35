package auth_test

import (
	"testing"

	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/testutils"
	"github.com/matercare/api/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestTokenHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)

	t.Run("Success - Valid credentials", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "alice@example.com",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)

		data := result.Data.(map[string]interface{})
		assert.NotEmpty(t, data["access"])
		assert.NotEmpty(t, data["refresh"])
	})

	t.Run("Success - Identifier is case-insensitive", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "ALICE@Example.COM",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Wrong password", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "alice@example.com",
			"password": "wrongpassword",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)

		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})

	t.Run("Error - Unknown identifier", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Error - Inactive account", func(t *testing.T) {
		u := testutils.CreateTestUser(t, database.DB, "inactive@example.com", "pw123456", models.RoleUser)
		database.DB.Model(u).Update("is_active", false)

		body := map[string]interface{}{
			"email":    "inactive@example.com",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Error - Missing fields", func(t *testing.T) {
		body := map[string]interface{}{
			"email": "alice@example.com",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})
}

func TestRefreshHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	user := testutils.CreateTestUser(t, database.DB, "refresh@example.com", "pw123456", models.RoleUser)

	t.Run("Success - Valid refresh token", func(t *testing.T) {
		refreshToken, _ := utils.GenerateRefreshToken(user.ID)

		body := map[string]interface{}{
			"refresh": refreshToken,
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/refresh", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.NotEmpty(t, data["access"])
		assert.NotEmpty(t, data["refresh"])
	})

	t.Run("Error - Refresh token is single-use", func(t *testing.T) {
		refreshToken, _ := utils.GenerateRefreshToken(user.ID)

		body := map[string]interface{}{"refresh": refreshToken}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/refresh", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "POST", "/api/v1/token/refresh", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Error - Invalid refresh token", func(t *testing.T) {
		body := map[string]interface{}{
			"refresh": "invalid_token",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/refresh", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)

		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})

	t.Run("Error - Missing field", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/refresh", map[string]interface{}{}, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})
}

func TestVerifyHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	user := testutils.CreateTestUser(t, database.DB, "verify@example.com", "pw123456", models.RoleStaff)

	t.Run("Success - Valid access token", func(t *testing.T) {
		token := testutils.GetAuthToken(t, user.ID, user.Role)

		body := map[string]interface{}{"token": token}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/verify", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		testutils.AssertSuccess(t, resp)
	})

	t.Run("Error - Garbage token", func(t *testing.T) {
		body := map[string]interface{}{"token": "not.a.jwt"}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/verify", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Error - Missing token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/token/verify", map[string]interface{}{}, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})
}

func TestNormalizeIdentifier(t *testing.T) {
	t.Run("emails are lowercased", func(t *testing.T) {
		assert.Equal(t, "alice@example.com", auth.NormalizeIdentifier("Alice@Example.COM"))
		assert.Equal(t, "bob@test.org", auth.NormalizeIdentifier("  bob@test.org "))
	})

	t.Run("national ids keep digits only", func(t *testing.T) {
		assert.Equal(t, "12345678900", auth.NormalizeIdentifier("123.456.789-00"))
		assert.Equal(t, "98765432100", auth.NormalizeIdentifier("987 654 321 00"))
	})
}
