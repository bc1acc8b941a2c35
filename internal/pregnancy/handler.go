package pregnancy

import (
	"time"

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

type contactInput struct {
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	Relationship string `json:"relationship"`
}

type addressInput struct {
	Street         string  `json:"street"`
	ReferencePoint *string `json:"reference_point"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
}

type recordInput struct {
	FullName         string        `json:"full_name"`
	SUSCardNumber    string        `json:"sus_card_number"`
	BirthDate        string        `json:"birth_date"`
	NISNumber        *string       `json:"nis_number"`
	PreferedName     *string       `json:"prefered_name"`
	Race             string        `json:"race"`
	Ethnicity        string        `json:"ethnicity"`
	WorkOutsideHome  bool          `json:"work_outside_home"`
	Occupation       *string       `json:"occupation"`
	MobilePhone      string        `json:"mobile_phone"`
	Email            *string       `json:"email"`
	DueDate          string        `json:"due_date"`
	Address          *addressInput `json:"address"`
	EmergencyContact *contactInput `json:"emergency_contact"`
}

func (in *recordInput) validate() map[string]string {
	errs := map[string]string{}
	if in.FullName == "" {
		errs["full_name"] = "full_name is required"
	}
	if in.SUSCardNumber == "" {
		errs["sus_card_number"] = "sus_card_number is required"
	}
	if in.MobilePhone == "" {
		errs["mobile_phone"] = "mobile_phone is required"
	}
	if _, err := time.Parse("2006-01-02", in.BirthDate); err != nil {
		errs["birth_date"] = "must be a YYYY-MM-DD date"
	}
	if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
		errs["due_date"] = "must be a YYYY-MM-DD date"
	}
	if in.Address == nil {
		errs["address"] = "address is required"
	}
	if in.EmergencyContact == nil {
		errs["emergency_contact"] = "emergency_contact is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func mustDate(value string) datatypes.Date {
	t, _ := time.Parse("2006-01-02", value)
	return datatypes.Date(t)
}

func susCardTaken(db *gorm.DB, number string, excludeID uint) bool {
	var existing models.PregnantWoman
	query := db.Where("sus_card_number = ?", number)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	return query.First(&existing).Error == nil
}

func nisNumberTaken(db *gorm.DB, number string, excludeID uint) bool {
	var existing models.PregnantWoman
	query := db.Where("nis_number = ?", number)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	return query.First(&existing).Error == nil
}

// CreateHandler registers a pregnant-woman record with its address and
// emergency contact in one transaction.
func CreateHandler(c *fiber.Ctx) error {
	var body recordInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if errs := body.validate(); errs != nil {
		return response.ValidationError(c, errs)
	}

	if susCardTaken(database.DB, body.SUSCardNumber, 0) {
		return response.Conflict(c, "Health-card number already registered")
	}

	if body.NISNumber != nil && nisNumberTaken(database.DB, *body.NISNumber, 0) {
		return response.Conflict(c, "NIS number already registered")
	}

	record := models.PregnantWoman{
		FullName:        sanitize(body.FullName),
		SUSCardNumber:   body.SUSCardNumber,
		BirthDate:       mustDate(body.BirthDate),
		NISNumber:       body.NISNumber,
		Race:            sanitize(body.Race),
		Ethnicity:       sanitize(body.Ethnicity),
		WorkOutsideHome: body.WorkOutsideHome,
		MobilePhone:     body.MobilePhone,
		Email:           body.Email,
		DueDate:         mustDate(body.DueDate),
		Address: models.Address{
			Street:         sanitize(body.Address.Street),
			ReferencePoint: body.Address.ReferencePoint,
			City:           sanitize(body.Address.City),
			State:          sanitize(body.Address.State),
			ZipCode:        body.Address.ZipCode,
		},
		EmergencyContact: models.EmergencyContact{
			Name:         sanitize(body.EmergencyContact.Name),
			PhoneNumber:  body.EmergencyContact.PhoneNumber,
			Relationship: sanitize(body.EmergencyContact.Relationship),
		},
	}
	if body.PreferedName != nil {
		name := sanitize(*body.PreferedName)
		record.PreferedName = &name
	}
	if body.Occupation != nil {
		occupation := sanitize(*body.Occupation)
		record.Occupation = &occupation
	}

	if err := database.DB.Create(&record).Error; err != nil {
		return response.InternalError(c, "Failed to create record")
	}

	return response.Created(c, record, "Record created successfully")
}

func ListHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var records []models.PregnantWoman
	var total int64

	database.DB.Model(&models.PregnantWoman{}).Count(&total)
	err := database.DB.
		Preload("Address").
		Preload("EmergencyContact").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return response.InternalError(c, "Failed to fetch records")
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, records, meta, "Records retrieved successfully")
}

func GetHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	var record models.PregnantWoman
	err = database.DB.
		Preload("Address").
		Preload("EmergencyContact").
		First(&record, id).Error
	if err != nil {
		return response.NotFound(c, "Record")
	}

	return response.Success(c, record, "Record retrieved successfully")
}

// UpdateHandler applies a partial update, including nested address and
// emergency-contact fields.
func UpdateHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	var record models.PregnantWoman
	err = database.DB.
		Preload("Address").
		Preload("EmergencyContact").
		First(&record, id).Error
	if err != nil {
		return response.NotFound(c, "Record")
	}

	var body recordInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.SUSCardNumber != "" {
		if susCardTaken(database.DB, body.SUSCardNumber, record.ID) {
			return response.Conflict(c, "Health-card number already registered")
		}
		record.SUSCardNumber = body.SUSCardNumber
	}

	if body.FullName != "" {
		record.FullName = sanitize(body.FullName)
	}
	if body.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", body.BirthDate); err != nil {
			return response.ValidationError(c, map[string]string{"birth_date": "must be a YYYY-MM-DD date"})
		}
		record.BirthDate = mustDate(body.BirthDate)
	}
	if body.DueDate != "" {
		if _, err := time.Parse("2006-01-02", body.DueDate); err != nil {
			return response.ValidationError(c, map[string]string{"due_date": "must be a YYYY-MM-DD date"})
		}
		record.DueDate = mustDate(body.DueDate)
	}
	if body.NISNumber != nil {
		if nisNumberTaken(database.DB, *body.NISNumber, record.ID) {
			return response.Conflict(c, "NIS number already registered")
		}
		record.NISNumber = body.NISNumber
	}
	if body.PreferedName != nil {
		name := sanitize(*body.PreferedName)
		record.PreferedName = &name
	}
	if body.Race != "" {
		record.Race = sanitize(body.Race)
	}
	if body.Ethnicity != "" {
		record.Ethnicity = sanitize(body.Ethnicity)
	}
	if body.Occupation != nil {
		occupation := sanitize(*body.Occupation)
		record.Occupation = &occupation
	}
	if body.MobilePhone != "" {
		record.MobilePhone = body.MobilePhone
	}
	if body.Email != nil {
		record.Email = body.Email
	}

	if body.Address != nil {
		record.Address.Street = sanitize(body.Address.Street)
		record.Address.ReferencePoint = body.Address.ReferencePoint
		record.Address.City = sanitize(body.Address.City)
		record.Address.State = sanitize(body.Address.State)
		record.Address.ZipCode = body.Address.ZipCode
	}
	if body.EmergencyContact != nil {
		record.EmergencyContact.Name = sanitize(body.EmergencyContact.Name)
		record.EmergencyContact.PhoneNumber = body.EmergencyContact.PhoneNumber
		record.EmergencyContact.Relationship = sanitize(body.EmergencyContact.Relationship)
	}

	err = database.DB.
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&record).Error
	if err != nil {
		return response.InternalError(c, "Failed to update record")
	}

	return response.Success(c, record, "Record updated successfully")
}

// DeleteHandler removes the record and its owned address and emergency
// contact. The cascade is explicit so it behaves the same on every
// driver.
func DeleteHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	var record models.PregnantWoman
	if err := database.DB.First(&record, id).Error; err != nil {
		return response.NotFound(c, "Record")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PregnantWoman{}, record.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Address{}, record.AddressID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EmergencyContact{}, record.EmergencyContactID).Error
	})
	if err != nil {
		return response.InternalError(c, "Failed to delete record")
	}

	return response.NoContent(c)
}
