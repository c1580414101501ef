// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentRoute "sekolahku_backend/internals/features/school/students/route"
)

// AdminSchoolRoutes: direktori siswa per sekolah.
func AdminSchoolRoutes(r fiber.Router, db *gorm.DB) {
	studentRoute.AdminSchoolStudentRoutes(r, db)
}
