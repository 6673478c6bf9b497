package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ErrorHandler renders the last error a handler recorded with c.Error as the
// {"error":{"code","message"}} envelope. AppErrors keep their status and code;
// anything else is logged and reported as INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Get().With(
			"request_id", c.GetString(requestIDKey),
			"user_id", c.GetString("userID"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		appErr := apperrors.ErrInternalServer
		var target *apperrors.AppError
		switch {
		case errors.As(err, &target):
			appErr = target
			if appErr.Internal != nil {
				log.Errorw("request failed",
					"code", appErr.Code,
					"internal", appErr.Internal.Error(),
				)
			}
		default:
			log.Errorw("unexpected error", "error", err.Error())
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
