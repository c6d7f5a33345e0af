package route

import (
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/api/controller"
	"github.com/bassista/go_core/internal/app"
)

// NewSaveRouter registers the save-slot endpoints.
func NewSaveRouter(rg *gin.RouterGroup, appCtx *app.App) {
	sc := controller.NewSaveController(appCtx.Saves)

	rg.GET("/saves", sc.List)
	rg.POST("/saves", sc.Create)
	rg.GET("/saves/:id", sc.Metadata)
	rg.DELETE("/saves/:id", sc.Delete)
	rg.GET("/saves/:id/data/:type", sc.GetData)
	rg.POST("/saves/:id/validate", sc.Validate)
}
