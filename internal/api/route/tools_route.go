package route

import (
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/api/controller"
	"github.com/bassista/go_core/internal/app"
)

// NewToolsRouter registers the dictionary filter and batch endpoints.
func NewToolsRouter(rg *gin.RouterGroup, appCtx *app.App) {
	tc := controller.NewToolsController(appCtx.Config.Data.DocumentsDir, appCtx.Batch)

	rg.POST("/tools/keys-by-value", tc.KeysByValue)
	rg.POST("/batch/read", tc.BatchRead)
	rg.POST("/batch/write", tc.BatchWrite)
}
