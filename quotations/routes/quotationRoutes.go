package routes

import (
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/quotations/controllers"

	"github.com/gofiber/fiber/v2"
)

func QuotationRouterInit(
	app *fiber.App,
	quotationController *controllers.QuotationController,
	appCtx *middleware.AppContext,
) {
	quotationRoutes := app.Group("/quotations", middleware.ProtectedRoute(appCtx))

	quotationRoutes.Get("/", quotationController.GetFilteredQuotations)
	quotationRoutes.Get("/:id", quotationController.GetQuotation)
	quotationRoutes.Post("/", quotationController.CreateQuotation)
	quotationRoutes.Post("/customers", quotationController.CreateCustomer)
	quotationRoutes.Post("/:id/confirm", quotationController.ConfirmQuotation)
	quotationRoutes.Post("/:id/cancel", quotationController.CancelQuotation)
}
