package public

import "github.com/vidsum/internal/provider"

// Handler 公开接口处理器入口，包括注册、登录与当前用户接口。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
