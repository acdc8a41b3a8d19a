package shared

import (
	"github.com/vidsum/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey 鉴权中间件写入当前用户的上下文键
const CurrentUserKey = "current_user"

// SetCurrentUser 写入当前登录用户
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(CurrentUserKey, user)
}

// CurrentUser 读取当前登录用户，未登录时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
