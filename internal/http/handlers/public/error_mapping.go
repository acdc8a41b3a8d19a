package public

import (
	"errors"

	handlershared "github.com/vidsum/internal/http/handlers/shared"
	"github.com/vidsum/internal/http/response"
	"github.com/vidsum/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgBadRequest          = "invalid request"
	msgIncorrectLogin      = "Incorrect username or password"
	msgInvalidCredentials  = "Could not validate credentials"
	msgUserAlreadyExists   = "Username or email already registered"
	msgEmailInUse          = "Email already registered"
	msgInvalidEmail        = "Invalid email address"
	msgInvalidUsername     = "Username is required"
	msgUserNotFound        = "User not found"
	msgInternalServerError = "Internal server error"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, msgInternalServerError, err)
}

func respondWeakPassword(c *gin.Context, err error) {
	// 策略错误的文本即具体未满足的规则
	respondError(c, response.CodeBadRequest, err.Error(), nil)
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrUserAlreadyExists, code: response.CodeBadRequest, msg: msgUserAlreadyExists},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: msgInvalidEmail},
	{target: service.ErrInvalidUsername, code: response.CodeBadRequest, msg: msgInvalidUsername},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: msgIncorrectLogin},
}

var updateEmailErrorRules = []mappedHandlerError{
	{target: service.ErrEmailInUse, code: response.CodeBadRequest, msg: msgEmailInUse},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: msgInvalidEmail},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: msgUserNotFound},
}
