package user

import (
	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/authz"
	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/response"
	"github.com/matercare/api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AdminCreateUserHandler creates an account with an explicit role.
// Staff may create; created accounts are always activated.
func AdminCreateUserHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)
	if !authz.CanWriteAdminAccounts(actor) {
		return response.Forbidden(c, "Only admin can create admins")
	}

	var body struct {
		Email    string      `json:"email"`
		Name     string      `json:"name"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if errs := validateAccountInput(body.Email, body.Name, body.Password); errs != nil {
		return response.ValidationError(c, errs)
	}

	if body.Role == "" {
		body.Role = models.RoleStaff
	}
	if !body.Role.Valid() {
		return response.ValidationError(c, map[string]string{
			"role": "role must be one of user, staff, admin",
		})
	}

	if IdentifierTaken(database.DB, body.Email, 0) {
		return response.Conflict(c, "User with this identifier already exists")
	}

	u, err := CreateAccount(database.DB, body.Email, body.Name, body.Password, body.Role)
	if err != nil {
		return response.InternalError(c, "Failed to create user")
	}

	return response.Created(c, u, "Account created successfully")
}

// AdminListUsersHandler lists every account regardless of tier.
func AdminListUsersHandler(c *fiber.Ctx) error {
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

func AdminGetUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var u models.User
	if err := database.DB.First(&u, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	return response.Success(c, u, "User retrieved successfully")
}

// AdminUpdateUserHandler updates any account, including role changes.
func AdminUpdateUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanWriteAdminAccounts(actor) {
		return response.Forbidden(c, "Only admin can change admins")
	}

	var body struct {
		Email    string      `json:"email"`
		Name     string      `json:"name"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
		IsActive *bool       `json:"is_active"`
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

	if body.Role != "" {
		if !body.Role.Valid() {
			return response.ValidationError(c, map[string]string{
				"role": "role must be one of user, staff, admin",
			})
		}
		u.Role = body.Role
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

	if body.IsActive != nil {
		u.IsActive = *body.IsActive
	}

	if err := database.DB.Save(&u).Error; err != nil {
		return response.InternalError(c, "Failed to update user")
	}

	return response.Success(c, u, "Account updated successfully")
}

// AdminDeleteUserHandler removes any account. Admin tier only, and
// never the actor's own account.
func AdminDeleteUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actor := auth.Actor(c)
	if !authz.CanDeleteAdminAccounts(actor) || actor.ID == uint(id) {
		return response.Forbidden(c, "Only admin can delete admins")
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
