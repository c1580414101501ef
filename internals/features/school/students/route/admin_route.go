// file: internals/features/school/students/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "sekolahku_backend/internals/features/school/students/controller"
)

func AdminSchoolStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := studentController.NewSchoolStudentHandler(db)
	students := r.Group("/students")
	{
		students.Get("/", ctl.List)
		students.Post("/", ctl.Create)
		students.Get("/:id", ctl.GetByID)
		students.Patch("/:id", ctl.Update)
		students.Delete("/:id", ctl.Delete)
	}
}
