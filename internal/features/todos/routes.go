package todos

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/birimengo/mytrade-api/internal/middleware"
	"github.com/birimengo/mytrade-api/internal/pkg/token"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, tokens *token.Manager) *Repository {
	repo := NewRepository(db)
	handler := NewHandler(repo)

	group := router.Group("/todo")
	group.Use(middleware.Auth(tokens))
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/stats/summary", handler.Stats)
		group.GET("/overdue", handler.Overdue)
		group.GET("/upcoming", handler.Upcoming)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
		group.POST("/:id/complete", handler.Complete)
		group.POST("/:id/reopen", handler.Reopen)
	}

	return repo
}
