// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	planRoute "sekolahku_backend/internals/features/finance/payment_plans/route"
	paymentRoute "sekolahku_backend/internals/features/finance/payments/route"
	notifService "sekolahku_backend/internals/features/notifications/service"
)

// AdminFinanceRoutes: katalog plan, enrollment, ledger cicilan, summary.
func AdminFinanceRoutes(r fiber.Router, db *gorm.DB, sender *notifService.WhatsAppSender) {
	planRoute.AdminPaymentPlanRoutes(r, db, sender)
	paymentRoute.AdminInstallmentPaymentRoutes(r, db)
}

// UserFinanceRoutes: checkout gateway.
func UserFinanceRoutes(r fiber.Router, db *gorm.DB) {
	paymentRoute.UserInstallmentPaymentRoutes(r, db)
}

// WebhookFinanceRoutes: endpoint publik untuk notifikasi PSP.
func WebhookFinanceRoutes(r fiber.Router, db *gorm.DB) {
	paymentRoute.WebhookPaymentRoutes(r, db)
}
