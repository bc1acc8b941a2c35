package profile

import (
	"time"

	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/authz"
	"github.com/matercare/api/internal/database"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var policy = bluemonday.StrictPolicy()

func sanitize(input string) string {
	return policy.Sanitize(input)
}

func sanitizePtr(input *string) *string {
	if input == nil {
		return nil
	}
	s := sanitize(*input)
	return &s
}

// profileInput is the shared request body for profile create/update.
// Dates arrive as YYYY-MM-DD strings.
type profileInput struct {
	Name            *string `json:"name"`
	FullName        *string `json:"full_name"`
	SUSCardNumber   *string `json:"sus_card_number"`
	BirthDate       *string `json:"birth_date"`
	NISNumber       *string `json:"nis_number"`
	PreferedName    *string `json:"prefered_name"`
	Race            *string `json:"race"`
	Ethnicity       *string `json:"ethnicity"`
	WorkOutsideHome *bool   `json:"work_outside_home"`
	Occupation      *string `json:"occupation"`
	MobilePhone     *string `json:"mobile_phone"`
	Email           *string `json:"email"`
	DueDate         *string `json:"due_date"`

	Address *addressInput `json:"address"`
}

type addressInput struct {
	Street         string  `json:"street"`
	ReferencePoint *string `json:"reference_point"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
}

func parseDate(value string) (*datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

// apply copies the provided fields onto the profile, sanitizing
// free-text values. Returns field-level errors for bad dates.
func (in *profileInput) apply(p *models.UserProfile) map[string]string {
	errs := map[string]string{}

	if in.Name != nil {
		p.Name = sanitize(*in.Name)
	}
	if in.FullName != nil {
		p.FullName = sanitize(*in.FullName)
	}
	if in.SUSCardNumber != nil {
		p.SUSCardNumber = in.SUSCardNumber
	}
	if in.NISNumber != nil {
		p.NISNumber = in.NISNumber
	}
	if in.PreferedName != nil {
		p.PreferedName = sanitizePtr(in.PreferedName)
	}
	if in.Race != nil {
		p.Race = sanitize(*in.Race)
	}
	if in.Ethnicity != nil {
		p.Ethnicity = sanitize(*in.Ethnicity)
	}
	if in.WorkOutsideHome != nil {
		p.WorkOutsideHome = *in.WorkOutsideHome
	}
	if in.Occupation != nil {
		p.Occupation = sanitizePtr(in.Occupation)
	}
	if in.MobilePhone != nil {
		p.MobilePhone = *in.MobilePhone
	}
	if in.Email != nil {
		p.Email = in.Email
	}

	if in.BirthDate != nil {
		d, err := parseDate(*in.BirthDate)
		if err != nil {
			errs["birth_date"] = "must be a YYYY-MM-DD date"
		} else {
			p.BirthDate = d
		}
	}
	if in.DueDate != nil {
		d, err := parseDate(*in.DueDate)
		if err != nil {
			errs["due_date"] = "must be a YYYY-MM-DD date"
		} else {
			p.DueDate = d
		}
	}

	if in.Address != nil {
		if p.Address == nil {
			p.Address = &models.Address{}
		}
		applyAddress(p.Address, in.Address)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func applyAddress(a *models.Address, in *addressInput) {
	a.Street = sanitize(in.Street)
	a.ReferencePoint = sanitizePtr(in.ReferencePoint)
	a.City = sanitize(in.City)
	a.State = sanitize(in.State)
	a.ZipCode = in.ZipCode
}

// susCardTaken reports whether another profile (live or soft-deleted)
// already uses the health-card number.
func susCardTaken(db *gorm.DB, number string, excludeID uint) bool {
	var existing models.UserProfile
	query := db.Unscoped().Where("sus_card_number = ?", number)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	return query.First(&existing).Error == nil
}

func saveProfile(db *gorm.DB, p *models.UserProfile) error {
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

// MyProfileHandler returns the actor's own profile. When none exists
// yet, an empty one pre-filled with the account's display name is
// created instead of returning not-found.
func MyProfileHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)

	var p models.UserProfile
	err := database.DB.Preload("Address").Where("user_id = ?", actor.ID).First(&p).Error
	if err == nil {
		return response.Success(c, p, "Profile retrieved successfully")
	}

	var u models.User
	if err := database.DB.First(&u, actor.ID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	p = models.UserProfile{
		UserID: &u.ID,
		Name:   u.Name,
	}
	if err := database.DB.Create(&p).Error; err != nil {
		return response.InternalError(c, "Failed to create profile")
	}

	return response.Success(c, p, "Profile created")
}

// UpdateMyProfileHandler updates the actor's own profile.
func UpdateMyProfileHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)

	var p models.UserProfile
	if err := database.DB.Preload("Address").Where("user_id = ?", actor.ID).First(&p).Error; err != nil {
		return response.NotFound(c, "Profile")
	}

	if !authz.OwnsProfile(actor, &p) {
		return response.Forbidden(c, "Users only can change their own data")
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

// CreateProfileHandler creates the actor's profile (legacy collection
// path). Each account gets at most one profile.
func CreateProfileHandler(c *fiber.Ctx) error {
	actor := auth.Actor(c)

	var existing models.UserProfile
	if err := database.DB.Where("user_id = ?", actor.ID).First(&existing).Error; err == nil {
		return response.ValidationError(c, map[string]string{
			"user": "you already have a profile created",
		})
	}

	var body profileInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.SUSCardNumber != nil && susCardTaken(database.DB, *body.SUSCardNumber, 0) {
		return response.Conflict(c, "Health-card number already registered")
	}

	p := models.UserProfile{UserID: &actor.ID}
	if errs := body.apply(&p); errs != nil {
		return response.ValidationError(c, errs)
	}

	if p.Name == "" {
		var u models.User
		if err := database.DB.First(&u, actor.ID).Error; err == nil {
			p.Name = u.Name
		}
	}

	if err := saveProfile(database.DB, &p); err != nil {
		return response.InternalError(c, "Failed to create profile")
	}

	return response.Created(c, p, "Profile created successfully")
}
