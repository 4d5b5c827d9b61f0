package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/worker-tasks-graphql/internal/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP routes of the API
func NewRouter(graphqlHandler *GraphQLHandler, healthHandler *HealthHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	r.GET("/health", healthHandler.Health)

	r.POST("/graphql", graphqlHandler.Query)
	r.GET("/graphql", graphqlHandler.QueryGet)

	return r
}
