// file: internals/features/finance/payments/route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "sekolahku_backend/internals/features/finance/payments/controller"
)

// AdminInstallmentPaymentRoutes: riwayat pembayaran per cicilan.
func AdminInstallmentPaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewInstallmentPaymentHandler(db)
	r.Get("/installments/:id/payments", ctl.ListByInstallment)
}

// UserInstallmentPaymentRoutes: checkout gateway.
func UserInstallmentPaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewInstallmentPaymentHandler(db)
	r.Post("/installments/:id/checkout", ctl.Checkout)
}

// WebhookPaymentRoutes: callback PSP. Dipasang TANPA AuthJWT karena Midtrans
// memanggil server-to-server; handler memverifikasi signature_key sendiri.
func WebhookPaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewInstallmentPaymentHandler(db)
	r.Post("/payments/midtrans/callback", ctl.MidtransCallback)
}
