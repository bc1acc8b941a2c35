package profile

import (
	"errors"

	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/response"
	"github.com/matercare/api/internal/storage"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Staff-facing profile management. Soft-deleted profiles are hidden by
// default; ?include_deleted=true widens reads for audit purposes.

func adminScope(c *fiber.Ctx) *gorm.DB {
	db := database.DB
	if c.Query("include_deleted") == "true" {
		return db.Unscoped()
	}
	return db
}

// AdminCreateProfileHandler creates a profile, optionally attached to a
// user. The at-most-one-live-profile rule still applies.
func AdminCreateProfileHandler(c *fiber.Ctx) error {
	var body struct {
		profileInput
		UserID *uint `json:"user_id"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.UserID != nil {
		var u models.User
		if err := database.DB.First(&u, *body.UserID).Error; err != nil {
			return response.NotFound(c, "User")
		}

		var existing models.UserProfile
		if err := database.DB.Where("user_id = ?", *body.UserID).First(&existing).Error; err == nil {
			return response.ValidationError(c, map[string]string{
				"user_id": "user already has a profile",
			})
		}
	}

	if body.SUSCardNumber != nil && susCardTaken(database.DB, *body.SUSCardNumber, 0) {
		return response.Conflict(c, "Health-card number already registered")
	}

	p := models.UserProfile{UserID: body.UserID}
	if errs := body.apply(&p); errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := saveProfile(database.DB, &p); err != nil {
		return response.InternalError(c, "Failed to create profile")
	}

	return response.Created(c, p, "Profile created successfully")
}

func AdminListProfilesHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var profiles []models.UserProfile
	var total int64

	adminScope(c).Model(&models.UserProfile{}).Count(&total)
	err := adminScope(c).
		Preload("Address").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return response.InternalError(c, "Failed to fetch profiles")
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, profiles, meta, "Profiles retrieved successfully")
}

func AdminGetProfileHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID", nil)
	}

	var p models.UserProfile
	if err := adminScope(c).Preload("Address").First(&p, id).Error; err != nil {
		return response.NotFound(c, "Profile")
	}

	return response.Success(c, p, "Profile retrieved successfully")
}

func AdminUpdateProfileHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID", nil)
	}

	var p models.UserProfile
	if err := database.DB.Preload("Address").First(&p, id).Error; err != nil {
		return response.NotFound(c, "Profile")
	}

	var body profileInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.SUSCardNumber != nil && susCardTaken(database.DB, *body.SUSCardNumber, p.ID) {
		return response.Conflict(c, "Health-card number already registered")
	}

	if errs := body.apply(&p); errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := saveProfile(database.DB, &p); err != nil {
		return response.InternalError(c, "Failed to update profile")
	}

	return response.Success(c, p, "Profile updated successfully")
}

// AdminDeleteProfileHandler soft-deletes: the row keeps its data and
// deletion timestamp, and disappears from default reads.
func AdminDeleteProfileHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID", nil)
	}

	var p models.UserProfile
	if err := database.DB.First(&p, id).Error; err != nil {
		return response.NotFound(c, "Profile")
	}

	if err := database.DB.Delete(&p).Error; err != nil {
		return response.InternalError(c, "Failed to delete profile")
	}

	return response.NoContent(c)
}

// AdminUploadProfileImageHandler replaces the profile image.
func AdminUploadProfileImageHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID", nil)
	}

	var p models.UserProfile
	if err := database.DB.First(&p, id).Error; err != nil {
		return response.NotFound(c, "Profile")
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

	oldImage := p.Image
	p.Image = &url
	if err := database.DB.Save(&p).Error; err != nil {
		storage.DeleteImage(url)
		return response.InternalError(c, "Failed to update profile")
	}

	if oldImage != nil {
		storage.DeleteImage(*oldImage)
	}

	return response.Success(c, p, "Image uploaded successfully")
}
