package FiberConfig

import (
	"fmt"
	"os"
	"time"

	"Whiskers/Controllers"
	"Whiskers/Models"
	"Whiskers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	customerController := Controllers.NewCustomerController(db)
	catController := Controllers.NewCatController(db)
	roomController := Controllers.NewRoomController(db)
	reservationController := Controllers.NewReservationController(db)
	taskController := Controllers.NewTaskController(db)
	pricingController := Controllers.NewPricingController(db)
	reportController := Controllers.NewReportController(db)

	// API group
	api := app.Group("/api")

	// Customer routes
	customers := api.Group("/customers", middleware.Verify(1))
	customers.Get("/", customerController.GetCustomers)
	customers.Post("/", customerController.CreateCustomer)
	customers.Get("/:id", customerController.GetCustomer)
	customers.Put("/:id", customerController.UpdateCustomer)
	customers.Delete("/:id", middleware.Verify(3), customerController.DeleteCustomer)

	// Cat routes
	cats := api.Group("/cats", middleware.Verify(1))
	cats.Get("/", catController.GetCats)
	cats.Post("/", catController.CreateCat)
	cats.Get("/:id", catController.GetCat)
	cats.Put("/:id", catController.UpdateCat)
	cats.Delete("/:id", middleware.Verify(3), catController.DeleteCat)
	cats.Post("/:id/photo", catController.UploadCatPhoto)

	// Room and room type routes
	rooms := api.Group("/rooms", middleware.Verify(1))
	rooms.Get("/", roomController.GetRooms)
	rooms.Post("/", middleware.Verify(3), roomController.CreateRoom)
	rooms.Get("/:id", roomController.GetRoom)
	rooms.Put("/:id", middleware.Verify(3), roomController.UpdateRoom)
	rooms.Delete("/:id", middleware.Verify(3), roomController.DeleteRoom)

	roomTypes := api.Group("/room-types", middleware.Verify(1))
	roomTypes.Get("/", roomController.GetRoomTypes)
	roomTypes.Post("/", middleware.Verify(3), roomController.CreateRoomType)
	roomTypes.Put("/:id", middleware.Verify(3), roomController.UpdateRoomType)
	roomTypes.Delete("/:id", middleware.Verify(3), roomController.DeleteRoomType)

	// Reservation routes
	reservations := api.Group("/reservations", middleware.Verify(1))
	reservations.Get("/", reservationController.GetReservations)
	reservations.Post("/", reservationController.CreateReservation)
	reservations.Get("/:id", reservationController.GetReservation)
	reservations.Patch("/:id/status", reservationController.UpdateReservationStatus)
	reservations.Post("/:id/checkin", reservationController.CheckIn)
	reservations.Post("/:id/checkout", reservationController.CheckOut)
	reservations.Delete("/:id", middleware.Verify(3), reservationController.DeleteReservation)

	// Task board routes
	tasks := api.Group("/tasks", middleware.Verify(1))
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", middleware.Verify(3), taskController.CreateTask)
	tasks.Patch("/:id/status", taskController.UpdateTaskStatus)

	// Pricing settings
	api.Get("/settings/pricing", middleware.Verify(1), pricingController.GetPricingSettings)
	api.Put("/settings/pricing", middleware.Verify(3), pricingController.UpdatePricingSettings)

	// Reports
	reports := api.Group("/reports", middleware.Verify(3))
	reports.Get("/reservations", reportController.ExportReservations)
	reports.Get("/occupancy", reportController.GetOccupancyStats)
	reports.Get("/tasks", reportController.GetTaskStats)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupRoutes(app, Models.DB)

	// Auth and account routes
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Get("/api/FetchUsers", middleware.Verify(4), Controllers.FetchUsers)
	app.Post("/api/Login", Controllers.Login)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Get("/api/User", middleware.Verify(0), Controllers.User)
	app.Post("/api/Logout", Controllers.Logout)
	app.Post("/api/UpdateToken", middleware.Verify(1), Models.UpdateDeviceToken)

	// Logs API routes
	app.Get("/api/logs", middleware.Verify(4), Controllers.GetLogs)
	app.Get("/api/logs/stats", middleware.Verify(4), Controllers.GetLogStats)
	app.Get("/api/logs/path/:path", middleware.Verify(4), Controllers.GetLogsByPath)

	// Serve cat photos
	app.Static("/CatPhotos", "./CatPhotos", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3001"
	}
	app.Listen(addr)
}
