// file: internals/route/index.go
package route

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classroomRoute "github.com/tubuzu/learn-together-backend/internals/features/classrooms/route"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/scheduler"
	classroomService "github.com/tubuzu/learn-together-backend/internals/features/classrooms/service"
	credentialService "github.com/tubuzu/learn-together-backend/internals/features/credentials/service"
	notificationRoute "github.com/tubuzu/learn-together-backend/internals/features/notifications/route"
	notificationService "github.com/tubuzu/learn-together-backend/internals/features/notifications/service"
	subjectRoute "github.com/tubuzu/learn-together-backend/internals/features/subjects/route"
	"github.com/tubuzu/learn-together-backend/internals/middlewares/auth"
)

// SetupRoutes wires the services together and mounts every endpoint.
// Returns the transition scheduler so the caller can drain it on shutdown.
func SetupRoutes(app *fiber.App, db *gorm.DB) *scheduler.TransitionScheduler {
	validate := validator.New()
	clock := scheduler.NewRealClock()
	sched := scheduler.New(clock)

	notifSvc := notificationService.NewNotificationService(db)
	credSvc := credentialService.NewCredentialService(db)

	clsSvc := classroomService.NewClassroomService(db, sched, credSvc, notifSvc, clock)
	memSvc := classroomService.NewMembershipService(db, sched, credSvc, notifSvc, clock)
	searchSvc := classroomService.NewSearchService(db)

	// the scheduler calls back into the classroom service; bound here to
	// break the construction cycle
	sched.Bind(clsSvc.TransitionOnSchedule)

	// reconcile stale states and re-arm pending transitions from before
	// the restart; serving traffic does not wait on the scan
	go func() {
		if err := clsSvc.RecoverOnRestart(context.Background()); err != nil {
			log.Printf("[RECOVER] startup scan failed: %v", err)
		}
	}()

	BaseRoutes(app, db)

	api := app.Group("/api/v1")
	authGuard := auth.AuthMiddleware()

	subjectRoute.SubjectRoutes(api, db)
	classroomRoute.ClassroomRoutes(api, authGuard, clsSvc, memSvc, searchSvc, validate)
	notificationRoute.NotificationRoutes(api, authGuard, notifSvc)

	return sched
}
