package routes

import (
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/reservations/controllers"

	"github.com/gofiber/fiber/v2"
)

func ReservationRouterInit(
	app *fiber.App,
	reservationController *controllers.ReservationController,
	appCtx *middleware.AppContext,
) {
	reservationRoutes := app.Group("/reservations")

	// Availability is public so storefronts can query it
	reservationRoutes.Get("/availability", reservationController.CheckAvailability)

	protected := reservationRoutes.Group("/", middleware.ProtectedRoute(appCtx))
	protected.Get("/", reservationController.GetFilteredReservations)
	protected.Get("/:id", reservationController.GetReservation)
	protected.Post("/", middleware.RequireRole("admin", "manager"), reservationController.CreateReservation)
	protected.Post("/:id/release", reservationController.ReleaseReservation)
	protected.Post("/expire-sweep", middleware.RequireRole("admin"), reservationController.RunExpirySweep)
}
