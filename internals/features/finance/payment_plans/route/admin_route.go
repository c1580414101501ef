// file: internals/features/finance/payment_plans/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	planController "sekolahku_backend/internals/features/finance/payment_plans/controller"
	notifService "sekolahku_backend/internals/features/notifications/service"
	"sekolahku_backend/internals/middlewares"
)

// AdminPaymentPlanRoutes memasang rute finance di bawah /api/a/:school_id.
func AdminPaymentPlanRoutes(r fiber.Router, db *gorm.DB, sender *notifService.WhatsAppSender) {
	planCtl := planController.NewPaymentPlanHandler(db)
	instCtl := planController.NewInstallmentHandler(db)
	enrollCtl := planController.NewStudentPaymentPlanHandler(db)

	plans := r.Group("/payment-plans")
	{
		plans.Get("/", planCtl.List)
		plans.Post("/", planCtl.Create)
		plans.Get("/summary", instCtl.Summary)
		plans.Delete("/:id", planCtl.Delete)
		plans.Post("/:id/enroll", enrollCtl.Enroll)
	}

	r.Get("/students/:student_id/payment-plans", enrollCtl.ListByStudent)

	installments := r.Group("/installments")
	{
		installments.Get("/", instCtl.List)
		installments.Post("/sweep-overdue", instCtl.SweepOverdue)
		installments.Post("/:id/pay", instCtl.RecordPayment)
	}

	reminderCtl := planController.NewReminderHandler(db, sender)
	installments.Post("/:id/remind", middlewares.ReminderRateLimiter(), reminderCtl.SendReminder)
}
