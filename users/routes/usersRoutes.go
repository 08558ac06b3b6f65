package routes

import (
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/users/controllers"

	"github.com/gofiber/fiber/v2"
)

func UserRouterInit(
	app *fiber.App,
	userController *controllers.UserController,
	loginController *controllers.LoginController,
	appCtx *middleware.AppContext,
) {
	userRoutes := app.Group("/users")

	userRoutes.Post("/login", loginController.LoginUser)
	userRoutes.Post("/logout", loginController.LogoutUser)

	protected := userRoutes.Group("", middleware.ProtectedRoute(appCtx))
	protected.Get("/", userController.GetFilteredUsers)
	protected.Get("/:id", userController.GetUserByID)
	protected.Post("/", middleware.RequireRole("admin"), userController.CreateUser)
	protected.Put("/:id", middleware.RequireRole("admin"), userController.UpdateUser)
	protected.Delete("/:id", middleware.RequireRole("admin"), userController.DeleteUser)
}
