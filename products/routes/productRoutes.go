package routes

import (
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/products/controllers"

	"github.com/gofiber/fiber/v2"
)

func ProductRouterInit(
	app *fiber.App,
	productController *controllers.ProductController,
	appCtx *middleware.AppContext,
) {
	productRoutes := app.Group("/products")

	// Read endpoints
	productRoutes.Get("/", productController.GetFilteredProducts)
	productRoutes.Get("/export", middleware.ProtectedRoute(appCtx), productController.ExportProducts)
	productRoutes.Get("/:id", productController.GetProductByID)

	// Catalog mutations require a manager or admin
	protected := productRoutes.Group("/",
		middleware.ProtectedRoute(appCtx),
		middleware.RequireRole("admin", "manager"),
	)
	protected.Post("/", productController.CreateProduct)
	protected.Post("/categories", productController.CreateCategory)
	protected.Post("/vendors", productController.CreateVendor)
	protected.Post("/bulk-upload", productController.BulkUploadProducts)
}
