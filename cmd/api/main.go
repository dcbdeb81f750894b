// @title MyTrade API
// @version 1.0
// @description Trade management API with task reminders over WhatsApp
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birimengo/mytrade-api/internal/config"
	"github.com/birimengo/mytrade-api/internal/database"
	"github.com/birimengo/mytrade-api/internal/features/reminders"
	"github.com/birimengo/mytrade-api/internal/middleware"
	"github.com/birimengo/mytrade-api/internal/pkg/callmebot"
	"github.com/birimengo/mytrade-api/internal/pkg/response"
	"github.com/birimengo/mytrade-api/internal/routes"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/birimengo/mytrade-api/docs"
)

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Title = "MyTrade API"
	docs.SwaggerInfo.Description = "Trade management API with task reminders over WhatsApp"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http"}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(context.Background())

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	todosRepo := routes.SetupRoutes(router, db.Database, cfg)

	// Background reminder scan, sharing the HTTP process.
	gateway := callmebot.New(cfg.GatewayBaseURL)
	scanner := reminders.NewService(todosRepo, reminders.NewDispatcher(gateway), cfg.ReminderWindowMinutes)

	scheduler := reminders.NewScheduler(time.Local)
	if cfg.ReminderInterval > 0 {
		_, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scanner.RunScan(ctx)
		})
		if err != nil {
			log.Fatal("Failed to schedule reminder scan:", err)
		}
		scheduler.Start()
		log.Printf("Reminder scan scheduled every %s", cfg.ReminderInterval)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
