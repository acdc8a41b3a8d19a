package public

import (
	"net/http"

	"github.com/vidsum/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Root 根路径不对外提供内容
func (h *Handler) Root(c *gin.Context) {
	response.Forbidden(c, "Forbidden")
}
