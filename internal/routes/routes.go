package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/birimengo/mytrade-api/internal/config"
	"github.com/birimengo/mytrade-api/internal/features/auth"
	"github.com/birimengo/mytrade-api/internal/features/todos"
	"github.com/birimengo/mytrade-api/internal/pkg/ratelimit"
	"github.com/birimengo/mytrade-api/internal/pkg/token"
)

// SetupRoutes registers every feature under /api and returns the todos
// repository so the reminder scanner can share it.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) *todos.Repository {
	api := router.Group("/api")
	api.Use(ratelimit.Middleware(300, time.Minute))

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpireHours)

	auth.RegisterRoutes(api, db, tokens)
	todosRepo := todos.RegisterRoutes(api, db, tokens)

	return todosRepo
}
