package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/rs/zerolog/log"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// RespondError maps err to its status and code. Internal errors are logged and
// replaced with the generic message.
func RespondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.AbortWithStatusJSON(appErr.Code.HTTPStatus(), Envelope{
		Success: false,
		Error:   &ErrorBody{Message: appErr.Message, Code: string(appErr.Code)},
	})
}
