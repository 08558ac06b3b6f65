package routes

import (
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/orders/controllers"

	"github.com/gofiber/fiber/v2"
)

func OrderRouterInit(
	app *fiber.App,
	orderController *controllers.OrderController,
	appCtx *middleware.AppContext,
) {
	orderRoutes := app.Group("/orders", middleware.ProtectedRoute(appCtx))

	orderRoutes.Get("/", orderController.GetFilteredOrders)
	orderRoutes.Get("/:id", orderController.GetOrder)
	orderRoutes.Post("/:id/pickup", orderController.MarkPickedUp)
	orderRoutes.Post("/:id/return", orderController.ProcessReturn)
	orderRoutes.Post("/:id/cancel", middleware.RequireRole("admin", "manager"), orderController.CancelOrder)
	orderRoutes.Post("/invoices/:invoiceId/payments", orderController.RecordPayment)
}
