package main

import (
	"context"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/seeds"
	"rental-marketplace-backend/token"
	"rental-marketplace-backend/utils"

	// Repositories
	order_repositories "rental-marketplace-backend/orders/repositories"
	product_repositories "rental-marketplace-backend/products/repositories"
	quotation_repositories "rental-marketplace-backend/quotations/repositories"
	reservation_repositories "rental-marketplace-backend/reservations/repositories"
	user_repositories "rental-marketplace-backend/users/repositories"

	// Controllers
	order_controllers "rental-marketplace-backend/orders/controllers"
	product_controllers "rental-marketplace-backend/products/controllers"
	quotation_controllers "rental-marketplace-backend/quotations/controllers"
	reservation_controllers "rental-marketplace-backend/reservations/controllers"
	user_controllers "rental-marketplace-backend/users/controllers"

	// Services
	reservation_services "rental-marketplace-backend/reservations/services"

	// Routes
	order_routes "rental-marketplace-backend/orders/routes"
	product_routes "rental-marketplace-backend/products/routes"
	quotation_routes "rental-marketplace-backend/quotations/routes"
	reservation_routes "rental-marketplace-backend/reservations/routes"
	user_routes "rental-marketplace-backend/users/routes"

	// Bleve search
	bleveControllers "rental-marketplace-backend/bleve/controllers"
	bleveRepositories "rental-marketplace-backend/bleve/repositories"
	bleveRoutes "rental-marketplace-backend/bleve/routes"
	bleveServices "rental-marketplace-backend/bleve/services"

	// Background tasks
	"rental-marketplace-backend/internal/tasks"

	// WebSocket
	"rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file found, relying on environment variables", zap.Error(err))
	}

	app := fiber.New()

	middleware.InitCors(app)
	app.Use(middleware.RateLimiter(20, 40))

	db := config.ConfigureDatabase()
	port := config.GetEnvOrDefault("PORT", "8080")
	ctx := context.Background()

	redisAddr := config.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	redisClient := config.InitRedisServer(ctx)
	utils.InitCache(redisClient)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	// Notification worker shares the process; the queue still decouples
	// email delivery from request latency.
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{Concurrency: 5})
	go func() {
		if err := asynqServer.Run(tasks.NewServeMux()); err != nil {
			config.Logger.Fatal("Asynq worker failed", zap.Error(err))
		}
	}()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	indexPath := config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")

	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	app.Static("/public", "./public")

	// Repositories
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	bleveServiceRepo, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	productRepo := product_repositories.NewProductRepository(db)
	reservationRepo := reservation_repositories.NewReservationRepository(db)
	quotationRepo := quotation_repositories.NewQuotationRepository(db)
	orderRepo := order_repositories.NewOrderRepository(db)
	userRepo := user_repositories.NewUserRepository(db)

	// Services
	availabilityService := reservation_services.NewAvailabilityService(reservationRepo, productRepo)
	reservationService := reservation_services.NewReservationService(reservationRepo, availabilityService)

	vatRate, err := decimal.NewFromString(config.GetEnvOrDefault("VAT_RATE", "0.15"))
	if err != nil {
		config.Logger.Fatal("Invalid VAT_RATE", zap.Error(err))
	}

	appCtx := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	// Controllers
	productController := &product_controllers.ProductController{
		ProductRepo: productRepo,
		DB:          db,
		BleveRepo:   bleveInterfaceRepo,
		RedisClient: redisClient,
	}
	reservationController := &reservation_controllers.ReservationController{
		Service: reservationService,
		Repo:    reservationRepo,
		DB:      db,
		Hub:     wsHub,
	}
	quotationController := &quotation_controllers.QuotationController{
		QuotationRepo:      quotationRepo,
		OrderRepo:          orderRepo,
		ProductRepo:        productRepo,
		ReservationService: reservationService,
		DB:                 db,
		AsynqClient:        asynqClient,
		Hub:                wsHub,
		VATRate:            vatRate,
	}
	orderController := &order_controllers.OrderController{
		OrderRepo:          orderRepo,
		ReservationService: reservationService,
		DB:                 db,
		Hub:                wsHub,
	}
	userController := &user_controllers.UserController{
		UserRepo:  userRepo,
		DB:        db,
		Ctx:       ctx,
		BleveRepo: bleveInterfaceRepo,
	}
	loginController := &user_controllers.LoginController{
		UserRepo:    userRepo,
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	// Routes
	product_routes.ProductRouterInit(app, productController, appCtx)
	reservation_routes.ReservationRouterInit(app, reservationController, appCtx)
	quotation_routes.QuotationRouterInit(app, quotationController, appCtx)
	order_routes.OrderRouterInit(app, orderController, appCtx)
	user_routes.UserRouterInit(app, userController, loginController, appCtx)

	bleveController := bleveControllers.NewSearchController(bleveServiceRepo)
	bleveRoutes.InitBleveRoutes(app, bleveController, db)

	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Expiry sweeper turns stale quotation holds into freed stock.
	sweeper := reservation_services.NewExpirySweeper(reservationService, asynqClient, wsHub)
	sweeper.Start()
	defer sweeper.Stop()

	go utils.RunScheduledCleanup()

	// Seeding
	if err := seeds.SeedAdminUser(db); err != nil {
		config.Logger.Error("Admin user seeding failed", zap.Error(err))
	}
	if err := seeds.SeedProductCategories(db); err != nil {
		config.Logger.Error("Product category seeding failed", zap.Error(err))
	}
	if err := seeds.SeedDemoData(db); err != nil {
		config.Logger.Error("Demo data seeding failed", zap.Error(err))
	}

	// Rebuild the search index from the database so Bleve survives
	// volume resets.
	go func() {
		products, err := productRepo.GetAllActiveProducts()
		if err != nil {
			config.Logger.Error("Failed to load products for search indexing", zap.Error(err))
		} else if err := bleveInterfaceRepo.IndexExistingProducts(products); err != nil {
			config.Logger.Error("Failed to index products in Bleve", zap.Error(err))
		}

		users, err := userRepo.GetAllUsers()
		if err != nil {
			config.Logger.Error("Failed to load users for search indexing", zap.Error(err))
		} else if err := bleveInterfaceRepo.IndexExistingUsers(users); err != nil {
			config.Logger.Error("Failed to index users in Bleve", zap.Error(err))
		}
	}()

	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
