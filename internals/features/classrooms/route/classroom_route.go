// file: internals/features/classrooms/route/classroom_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/controller"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/service"
	"github.com/tubuzu/learn-together-backend/internals/middlewares"
)

// ClassroomRoutes registers lifecycle, membership and join-request
// endpoints. Discovery reads are public; everything else requires auth,
// and the write endpoints sit behind the tighter per-user limiter.
func ClassroomRoutes(api fiber.Router, authGuard fiber.Handler, svc *service.ClassroomService, membership *service.MembershipService, search *service.SearchService, v *validator.Validate) {
	clsCtl := controller.NewClassroomController(svc, search, v)
	memCtl := controller.NewMembershipController(membership, v)
	reqCtl := controller.NewJoinRequestController(membership)

	r := api.Group("/classrooms")
	write := middlewares.ClassroomWriteRateLimiter()

	// public discovery
	r.Get("/", clsCtl.List)
	r.Get("/map", clsCtl.SearchByMap)

	// authenticated reads
	r.Get("/me/current", authGuard, clsCtl.MyCurrent)
	r.Get("/me/history", authGuard, clsCtl.MyHistory)
	r.Get("/:id/join-requests", authGuard, reqCtl.List)

	// public detail (kept after the static segments so they match first)
	r.Get("/:id", clsCtl.GetByID)

	// lifecycle
	r.Post("/", authGuard, write, clsCtl.Create)
	r.Patch("/:id", authGuard, write, clsCtl.Update)
	r.Post("/:id/end", authGuard, write, clsCtl.End)

	// membership
	r.Post("/:id/join", authGuard, write, memCtl.JoinPublic)
	r.Post("/:id/join-private", authGuard, write, memCtl.JoinPrivate)
	r.Post("/:id/leave", authGuard, write, memCtl.Leave)
	r.Post("/:id/kick/:userId", authGuard, write, memCtl.Kick)
	r.Post("/:id/transfer-tutor", authGuard, write, memCtl.TransferTutor)
	r.Post("/:id/transfer-owner", authGuard, write, memCtl.TransferOwner)

	// join request review
	r.Post("/join-requests/:requestId/accept", authGuard, write, reqCtl.Accept)
	r.Post("/join-requests/:requestId/reject", authGuard, write, reqCtl.Reject)
}
