package route

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/api/middleware"
	"github.com/bassista/go_core/internal/app"
)

// SetupRoutes builds the gin engine with all middleware and API routes.
func SetupRoutes(appCtx *app.App, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(logger.WithField("component", "honeybadger")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))
	r.Use(middleware.RequestTimeout(appCtx.Config.Server.RequestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	publicRouter := r.Group("")

	NewDocumentRouter(publicRouter, appCtx)
	NewSaveRouter(publicRouter, appCtx)
	NewLangRouter(publicRouter, appCtx)
	NewToolsRouter(publicRouter, appCtx)

	return r
}
