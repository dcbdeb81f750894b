package auth

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/birimengo/mytrade-api/internal/middleware"
	"github.com/birimengo/mytrade-api/internal/pkg/token"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, tokens *token.Manager) *Repository {
	repo := NewRepository(db)
	handler := NewHandler(repo, tokens)

	group := router.Group("/auth")
	{
		group.POST("/register", handler.Register)
		group.POST("/login", handler.Login)

		protected := group.Group("")
		protected.Use(middleware.Auth(tokens))
		{
			protected.GET("/me", handler.Me)
			protected.PUT("/notifications", handler.UpdateNotifications)
		}
	}

	return repo
}
