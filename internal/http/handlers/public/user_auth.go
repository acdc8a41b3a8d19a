package public

import (
	"errors"
	"time"

	"github.com/vidsum/internal/constants"
	handlershared "github.com/vidsum/internal/http/handlers/shared"
	"github.com/vidsum/internal/http/response"
	"github.com/vidsum/internal/models"
	"github.com/vidsum/internal/service"

	"github.com/gin-gonic/gin"
)

// UserView 对外暴露的用户信息，不包含密码哈希与 Token
type UserView struct {
	UserID           uint       `json:"user_id,omitempty"`
	UserName         string     `json:"user_name"`
	Email            string     `json:"email"`
	IdentityProvider string     `json:"identity_provider"`
	LastLoginDate    *time.Time `json:"last_login_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newUserView(user *models.User) UserView {
	return UserView{
		UserID:           user.ID,
		UserName:         user.UserName,
		Email:            user.Email,
		IdentityProvider: user.IdentityProvider,
		LastLoginDate:    user.LastLoginDate,
		CreatedAt:        user.CreatedAt,
	}
}

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, nil)
		return
	}

	user, err := h.UserAuthService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			respondWeakPassword(c, err)
			return
		}
		respondWithMappedError(c, err, registerErrorRules)
		return
	}

	response.Success(c, newUserView(user))
}

// UserTokenRequest 登录换取 Token 请求，兼容 JSON 与表单提交
type UserTokenRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserTokenResponse 登录成功返回的 Token
type UserTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserLogin 用户名（或邮箱）+ 密码登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, nil)
		return
	}

	_, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules)
		return
	}

	response.Success(c, UserTokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		ExpiresAt:   expiresAt,
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user := handlershared.CurrentUser(c)
	if user == nil {
		respondError(c, response.CodeUnauthorized, msgInvalidCredentials, nil)
		return
	}
	response.Success(c, newUserView(user))
}

// UpdateEmailRequest 修改邮箱请求
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// UpdateCurrentUserEmail 修改当前用户邮箱
func (h *Handler) UpdateCurrentUserEmail(c *gin.Context) {
	user := handlershared.CurrentUser(c)
	if user == nil {
		respondError(c, response.CodeUnauthorized, msgInvalidCredentials, nil)
		return
	}

	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, nil)
		return
	}

	updated, err := h.UserAuthService.UpdateUserEmail(c.Request.Context(), user, req.Email)
	if err != nil {
		respondWithMappedError(c, err, updateEmailErrorRules)
		return
	}
	response.Success(c, newUserView(updated))
}
