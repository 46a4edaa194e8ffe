package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/click-backend/internal/platform/apierr"
)

// Error writes err using its *apierr.Error status and code when present,
// otherwise a 500 with fallbackCode.
func Error(c *gin.Context, fallbackCode string, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = fallbackCode
		}
		RespondError(c, status, code, err)
		return
	}
	RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}
