// file: internals/features/subjects/route/subject_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/features/subjects/controller"
)

// SubjectRoutes registers the public subject catalog endpoints.
func SubjectRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewSubjectController(db)

	r := api.Group("/subjects")
	r.Get("/", ctl.List)
	r.Get("/:id", ctl.GetByID)
}
