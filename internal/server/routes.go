package server

import (
	"time"

	"github.com/matercare/api/internal/auth"
	"github.com/matercare/api/internal/authz"
	"github.com/matercare/api/internal/pregnancy"
	"github.com/matercare/api/internal/profile"
	"github.com/matercare/api/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "MaterCare API is running",
		})
	})

	api := app.Group("/api/v1")

	// ==========================================
	// TOKEN ENDPOINTS (No authentication required)
	// ==========================================
	tokenGroup := api.Group("/token", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	tokenGroup.Post("/", auth.TokenHandler)
	tokenGroup.Post("/refresh", auth.RefreshHandler)
	tokenGroup.Post("/verify", auth.VerifyHandler)

	// ==========================================
	// CURRENT ACTOR
	// ==========================================
	api.Get("/detail/me", auth.JWTProtected(), user.MeHandler)

	// ==========================================
	// USER MANAGEMENT (ownership checks in handlers)
	// ==========================================
	userGroup := api.Group("/users")
	userGroup.Use(auth.JWTProtected())
	userGroup.Post("/", user.CreateUserHandler)
	userGroup.Get("/", user.ListUsersHandler)
	userGroup.Get("/:id", user.GetUserHandler)
	userGroup.Patch("/:id", user.UpdateUserHandler)
	userGroup.Delete("/:id", user.DeleteUserHandler)
	userGroup.Post("/:id/upload-image", user.UploadImageHandler)

	// ==========================================
	// OWN PROFILE
	// ==========================================
	profileGroup := api.Group("/user-profiles")
	profileGroup.Use(auth.JWTProtected())
	profileGroup.Get("/me", profile.MyProfileHandler)
	profileGroup.Post("/me", profile.UpdateMyProfileHandler)
	profileGroup.Post("/", profile.CreateProfileHandler)

	// ==========================================
	// ADMIN SURFACE (staff tier and above)
	// ==========================================
	adminGroup := api.Group("/admin")
	adminGroup.Use(auth.JWTProtected())

	adminUsers := adminGroup.Group("/users", auth.Require(authz.CanReadAdminAccounts))
	adminUsers.Post("/", user.AdminCreateUserHandler)
	adminUsers.Get("/", user.AdminListUsersHandler)
	adminUsers.Get("/:id", user.AdminGetUserHandler)
	adminUsers.Patch("/:id", user.AdminUpdateUserHandler)
	adminUsers.Delete("/:id", user.AdminDeleteUserHandler)

	adminProfiles := adminGroup.Group("/user-profiles", auth.Require(authz.CanManageProfiles))
	adminProfiles.Post("/", profile.AdminCreateProfileHandler)
	adminProfiles.Get("/", profile.AdminListProfilesHandler)
	adminProfiles.Get("/:id", profile.AdminGetProfileHandler)
	adminProfiles.Patch("/:id", profile.AdminUpdateProfileHandler)
	adminProfiles.Delete("/:id", profile.AdminDeleteProfileHandler)
	adminProfiles.Post("/:id/upload-image", profile.AdminUploadProfileImageHandler)

	// ==========================================
	// PREGNANT-WOMAN RECORDS (staff tier and above)
	// ==========================================
	pregnancyGroup := api.Group("/pregnant-women")
	pregnancyGroup.Use(auth.JWTProtected())
	pregnancyGroup.Use(auth.Require(authz.CanManagePregnancyRecords))
	pregnancyGroup.Post("/", pregnancy.CreateHandler)
	pregnancyGroup.Get("/", pregnancy.ListHandler)
	pregnancyGroup.Get("/:id", pregnancy.GetHandler)
	pregnancyGroup.Patch("/:id", pregnancy.UpdateHandler)
	pregnancyGroup.Delete("/:id", pregnancy.DeleteHandler)
}
