package route

import (
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/api/controller"
	"github.com/bassista/go_core/internal/app"
)

// NewLangRouter registers the localized-text endpoints.
func NewLangRouter(rg *gin.RouterGroup, appCtx *app.App) {
	lc := controller.NewLangController(appCtx.Lang)

	rg.GET("/lang", lc.Languages)
	rg.GET("/lang/:lang/:key", lc.Text)
}
