package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error envelope. When err is an AppError its status
// mapping wins over code, and its Details travel in the data field.
func RespondError(c *gin.Context, code int, err error) {
	var appErr *AppError
	var data interface{}
	if errors.As(err, &appErr) {
		code = StatusFor(err)
		if len(appErr.Details) > 0 {
			data = appErr.Details
		}
	}

	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    data,
	})
}

// RespondAppError derives the status code from err.
func RespondAppError(c *gin.Context, err error) {
	RespondError(c, StatusFor(err), err)
}
