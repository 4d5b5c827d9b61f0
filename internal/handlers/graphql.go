package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/worker-tasks-graphql/internal/errors"
	"github.com/yukikurage/worker-tasks-graphql/internal/graph"
	"go.uber.org/zap"
)

type GraphQLHandler struct {
	schema *graph.Schema
	log    *zap.Logger
}

func NewGraphQLHandler(schema *graph.Schema, log *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema: schema,
		log:    log,
	}
}

// Query executes a GraphQL request sent as a JSON body
func (h *GraphQLHandler) Query(c *gin.Context) {
	var req graph.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	h.execute(c, req)
}

// QueryGet executes a GraphQL request sent as query parameters. Variables
// are passed as a JSON encoded object.
func (h *GraphQLHandler) QueryGet(c *gin.Context) {
	req := graph.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}

	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			apierrors.BadRequestWithDetails(c, "Invalid variables", err.Error())
			return
		}
	}

	h.execute(c, req)
}

func (h *GraphQLHandler) execute(c *gin.Context, req graph.Request) {
	if req.Query == "" {
		apierrors.BadRequest(c, "Missing query")
		return
	}

	result := h.schema.Do(c.Request.Context(), req)
	if result.HasErrors() {
		h.log.Debug("graphql request returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(result.Errors)),
		)
	}

	c.JSON(http.StatusOK, result)
}
