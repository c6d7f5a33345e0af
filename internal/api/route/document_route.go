package route

import (
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/api/controller"
	"github.com/bassista/go_core/internal/app"
)

// NewDocumentRouter registers the document store endpoints.
func NewDocumentRouter(rg *gin.RouterGroup, appCtx *app.App) {
	dc := controller.NewDocumentController(appCtx.Config.Data.DocumentsDir, appCtx.Store)

	rg.GET("/documents/*path", dc.Get)
	rg.PUT("/documents/*path", dc.Put)
	rg.GET("/files/*path", dc.List)
}
