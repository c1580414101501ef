// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	notifService "sekolahku_backend/internals/features/notifications/service"
	schoolMiddleware "sekolahku_backend/internals/middlewares/auth_school"
	routeDetails "sekolahku_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	sender := notifService.NewWhatsAppSender(
		configs.GetEnv("WHATSAPP_API_URL"),
		configs.GetEnv("WHATSAPP_API_TOKEN"),
	)
	if !sender.Configured() {
		log.Println("[INFO] whatsapp provider not configured, reminders will return 400")
	}

	// ===================== WEBHOOK (PSP, tanpa JWT) =====================
	log.Println("[INFO] Setting up WEBHOOK group (signature auth)...")
	webhook := app.Group("/api/w")
	routeDetails.WebhookFinanceRoutes(webhook, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u",
		schoolMiddleware.AuthJWT(schoolMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	routeDetails.UserFinanceRoutes(user, db)

	// ===================== ADMIN (per school) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + school scope)...")
	admin := app.Group("/api/a/:school_id",
		schoolMiddleware.AuthJWT(schoolMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	routeDetails.AdminSchoolRoutes(admin, db)
	routeDetails.AdminFinanceRoutes(admin, db, sender)
}
