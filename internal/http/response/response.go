package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
)

// ErrorBody is the flat error shape shared by every endpoint. Clients
// branch on ErrorCode; Detail is display text.
type ErrorBody struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

// Error writes err as an ErrorBody. Errors that are not *apierr.Error
// collapse to a 500 with an internal marker code.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := ErrorBody{Detail: "unknown error", ErrorCode: "INTERNAL"}

	var apiErr *apierr.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
		body = ErrorBody{Detail: apiErr.Detail(), ErrorCode: apiErr.Code}
	case err != nil:
		body.Detail = err.Error()
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
