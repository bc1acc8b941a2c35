package user

import (
	"errors"
	"strings"

	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/authz"
	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/response"
	"github.com/matercare/api/internal/storage"
	"github.com/matercare/api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// CreateUserHandler creates an ordinary user account. Staff only.
func CreateUserHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)
	if !authz.CanCreateUser(actor) {
		return response.Forbidden(c, "Only staff can create users")
	}

	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if errs := validateAccountInput(body.Email, body.Name, body.Password); errs != nil {
		return response.ValidationError(c, errs)
	}

	if IdentifierTaken(database.DB, body.Email, 0) {
		return response.Conflict(c, "User with this identifier already exists")
	}

	u, err := CreateAccount(database.DB, body.Email, body.Name, body.Password, models.RoleUser)
	if err != nil {
		return response.InternalError(c, "Failed to create user")
	}

	return response.Created(c, u, "User created successfully")
}

// ListUsersHandler lists all accounts. Staff only.
func ListUsersHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)
	if !actor.Role.IsStaff() {
		return response.Forbidden(c, "You don't have permission to list users")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	database.DB.Model(&models.User{}).Count(&total)
	if err := database.DB.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return response.InternalError(c, "Failed to fetch users")
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, users, meta, "Users retrieved successfully")
}

// GetUserHandler returns a single account: own record, or any record
// for staff. The permission check runs before the lookup, so a plain
// user probing foreign ids always sees 403.
func GetUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanReadUser(actor, uint(id)) {
		return response.Forbidden(c, "You don't have permission to access this user")
	}

	var u models.User
	if err := database.DB.First(&u, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	return response.Success(c, u, "User retrieved successfully")
}

// MeHandler returns the current actor's own record.
func MeHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)

	var u models.User
	if err := database.DB.First(&u, actor.ID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	return response.Success(c, u, "User retrieved successfully")
}

// UpdateUserHandler updates an account: own record, or any record for
// staff. Role changes go through the admin surface.
func UpdateUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanUpdateUser(actor, uint(id)) {
		return response.Forbidden(c, "Users only can change their own data")
	}

	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		IsActive *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var u models.User
	if err := database.DB.First(&u, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	if body.Email != "" {
		normalized := auth.NormalizeIdentifier(body.Email)
		if normalized != u.Email && IdentifierTaken(database.DB, normalized, u.ID) {
			return response.Conflict(c, "Identifier already taken")
		}
		u.Email = normalized
	}

	if body.Name != "" {
		u.Name = body.Name
	}

	if body.Password != "" {
		if len(body.Password) < 8 {
			return response.ValidationError(c, map[string]string{
				"password": "password must be at least 8 characters",
			})
		}
		hashed, err := utils.HashPassword(body.Password)
		if err != nil {
			return response.InternalError(c, "Failed to hash password")
		}
		u.Password = hashed
	}

	if body.IsActive != nil && actor.Role.IsStaff() {
		u.IsActive = *body.IsActive
	}

	if err := database.DB.Save(&u).Error; err != nil {
		return response.InternalError(c, "Failed to update user")
	}

	return response.Success(c, u, "User updated successfully")
}

// DeleteUserHandler removes an account. Staff only; self-delete is
// forbidden for every tier.
func DeleteUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanDeleteUser(actor, uint(id)) {
		return response.Forbidden(c, "You don't have permission to delete this user")
	}

	var u models.User
	if err := database.DB.First(&u, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	if err := DeleteAccount(database.DB, u.ID); err != nil {
		return response.InternalError(c, "Failed to delete user")
	}

	return response.NoContent(c)
}

// UploadImageHandler replaces the account's profile image. The old file
// is deleted best-effort after the new one is stored.
func UploadImageHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanUpdateUser(actor, uint(id)) {
		return response.Forbidden(c, "You don't have permission to access this user")
	}

	var u models.User
	if err := database.DB.First(&u, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.ValidationError(c, map[string]string{
			"image": "image file is required",
		})
	}

	url, err := storage.SaveImage(file)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return response.ValidationError(c, map[string]string{
				"image": "upload a valid image",
			})
		}
		return response.BadRequest(c, "Failed to store image", err.Error())
	}

	oldImage := u.Image
	u.Image = &url
	if err := database.DB.Save(&u).Error; err != nil {
		storage.DeleteImage(url)
		return response.InternalError(c, "Failed to update user")
	}

	if oldImage != nil {
		storage.DeleteImage(*oldImage)
	}

	return response.Success(c, u, "Image uploaded successfully")
}

func validateAccountInput(email, name, password string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "email is required"
	}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "name is required"
	}
	if password == "" {
		errs["password"] = "password is required"
	} else if len(password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
