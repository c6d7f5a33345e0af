package controller

import (
	"net/http"

	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/result"
)

// respond writes a Result as the JSON response, mapping the failure kind to
// an HTTP status via its errdefs classification.
func respond(c *gin.Context, res result.Result) {
	c.JSON(statusFor(res), res)
}

func statusFor(res result.Result) int {
	if res.Success {
		return http.StatusOK
	}
	err := res.Err()
	switch {
	case errdefs.IsNotFound(err):
		return http.StatusNotFound
	case errdefs.IsInvalidArgument(err):
		return http.StatusBadRequest
	case errdefs.IsDataLoss(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
