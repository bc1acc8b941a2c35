package user_test

import (
	"fmt"
	"testing"

	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestCreateUserHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	staff := testutils.CreateTestUser(t, database.DB, "staff@example.com", "pw123456", models.RoleStaff)
	plain := testutils.CreateTestUser(t, database.DB, "plain@example.com", "pw123456", models.RoleUser)

	staffToken := testutils.GetAuthToken(t, staff.ID, staff.Role)
	plainToken := testutils.GetAuthToken(t, plain.ID, plain.Role)

	t.Run("Success - Staff creates a user", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "newuser@example.com",
			"name":     "New User",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", body, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var created models.User
		database.DB.Where("email = ?", "newuser@example.com").First(&created)
		assert.Equal(t, models.RoleUser, created.Role)
		assert.True(t, created.IsActive)
	})

	t.Run("Error - Plain user cannot create", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "another@example.com",
			"name":     "Another",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", body, plainToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)

		testutils.AssertError(t, resp, "FORBIDDEN")
	})

	t.Run("Error - Duplicate identifier", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "plain@example.com",
			"name":     "Dup",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", body, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("Error - Whitespace-only identifier", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "   ",
			"name":     "Blank",
			"password": "pw123456",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", body, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - Short password", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "short@example.com",
			"name":     "Short",
			"password": "pw",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", body, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - No token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/v1/users/", map[string]interface{}{}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestGetUserHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	staff := testutils.CreateTestUser(t, database.DB, "staff@example.com", "pw123456", models.RoleStaff)
	alice := testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)
	bob := testutils.CreateTestUser(t, database.DB, "bob@example.com", "pw123456", models.RoleUser)

	staffToken := testutils.GetAuthToken(t, staff.ID, staff.Role)
	aliceToken := testutils.GetAuthToken(t, alice.ID, alice.Role)

	t.Run("Success - User reads own record", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "alice@example.com", data["email"])
		assert.Nil(t, data["password"])
	})

	t.Run("Error - User cannot read another record", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", fmt.Sprintf("/api/v1/users/%d", bob.ID), nil, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Error - Probing a missing id is still forbidden for plain users", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/v1/users/9999", nil, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Staff reads any record", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", fmt.Sprintf("/api/v1/users/%d", bob.ID), nil, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Staff gets 404 on missing id", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/v1/users/9999", nil, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestMeHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	alice := testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)
	token := testutils.GetAuthToken(t, alice.ID, alice.Role)

	t.Run("Success - Returns own account", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/v1/detail/me", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "alice@example.com", data["email"])
	})

	t.Run("Error - Requires token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/v1/detail/me", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	staff := testutils.CreateTestUser(t, database.DB, "staff@example.com", "pw123456", models.RoleStaff)
	alice := testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)
	bob := testutils.CreateTestUser(t, database.DB, "bob@example.com", "pw123456", models.RoleUser)

	staffToken := testutils.GetAuthToken(t, staff.ID, staff.Role)
	aliceToken := testutils.GetAuthToken(t, alice.ID, alice.Role)

	t.Run("Success - User updates own name", func(t *testing.T) {
		body := map[string]interface{}{"name": "Alice Renamed"}

		resp, err := testutils.MakeRequest(app, "PATCH", fmt.Sprintf("/api/v1/users/%d", alice.ID), body, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var updated models.User
		database.DB.First(&updated, alice.ID)
		assert.Equal(t, "Alice Renamed", updated.Name)
	})

	t.Run("Error - User cannot update another account", func(t *testing.T) {
		body := map[string]interface{}{"name": "Hijacked"}

		resp, err := testutils.MakeRequest(app, "PATCH", fmt.Sprintf("/api/v1/users/%d", bob.ID), body, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Error - Email change to a taken identifier", func(t *testing.T) {
		body := map[string]interface{}{"email": "bob@example.com"}

		resp, err := testutils.MakeRequest(app, "PATCH", fmt.Sprintf("/api/v1/users/%d", alice.ID), body, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("Success - Staff deactivates an account", func(t *testing.T) {
		body := map[string]interface{}{"is_active": false}

		resp, err := testutils.MakeRequest(app, "PATCH", fmt.Sprintf("/api/v1/users/%d", bob.ID), body, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var updated models.User
		database.DB.First(&updated, bob.ID)
		assert.False(t, updated.IsActive)
	})

	t.Run("Plain user cannot flip own is_active", func(t *testing.T) {
		body := map[string]interface{}{"is_active": false}

		resp, err := testutils.MakeRequest(app, "PATCH", fmt.Sprintf("/api/v1/users/%d", alice.ID), body, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var updated models.User
		database.DB.First(&updated, alice.ID)
		assert.True(t, updated.IsActive)
	})
}

func TestDeleteUserHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	staff := testutils.CreateTestUser(t, database.DB, "staff@example.com", "pw123456", models.RoleStaff)
	alice := testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)

	staffToken := testutils.GetAuthToken(t, staff.ID, staff.Role)
	aliceToken := testutils.GetAuthToken(t, alice.ID, alice.Role)

	t.Run("Error - Plain user cannot delete", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", fmt.Sprintf("/api/v1/users/%d", staff.ID), nil, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Error - Staff cannot delete own account", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", fmt.Sprintf("/api/v1/users/%d", staff.ID), nil, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Staff deletes a user and the profile is unlinked", func(t *testing.T) {
		p := models.UserProfile{UserID: &alice.ID, Name: alice.Name}
		assert.NoError(t, database.DB.Create(&p).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 204, resp.Code)

		var count int64
		database.DB.Model(&models.User{}).Where("id = ?", alice.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		var kept models.UserProfile
		assert.NoError(t, database.DB.First(&kept, p.ID).Error)
		assert.Nil(t, kept.UserID)
	})

	t.Run("Error - Deleting a missing user", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/v1/users/9999", nil, staffToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestUploadImageHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	alice := testutils.CreateTestUser(t, database.DB, "alice@example.com", "pw123456", models.RoleUser)
	bob := testutils.CreateTestUser(t, database.DB, "bob@example.com", "pw123456", models.RoleUser)

	aliceToken := testutils.GetAuthToken(t, alice.ID, alice.Role)

	t.Run("Success - Valid PNG", func(t *testing.T) {
		files := map[string][]byte{"image": testutils.PNGBytes(t)}

		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/v1/users/%d/upload-image", alice.ID), nil, files, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var updated models.User
		database.DB.First(&updated, alice.ID)
		assert.NotNil(t, updated.Image)
		assert.Contains(t, *updated.Image, "/uploads/photos/")
	})

	t.Run("Error - Non-image payload", func(t *testing.T) {
		files := map[string][]byte{"image": []byte("definitely not an image")}

		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/v1/users/%d/upload-image", alice.ID), nil, files, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - Missing file field", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/v1/users/%d/upload-image", alice.ID), nil, nil, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Cannot upload to another account", func(t *testing.T) {
		files := map[string][]byte{"image": testutils.PNGBytes(t)}

		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/v1/users/%d/upload-image", bob.ID), nil, files, aliceToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})
}
