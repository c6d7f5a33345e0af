package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/lang"
)

// LangController exposes the localized-text catalog over HTTP.
type LangController struct {
	catalog *lang.Catalog
}

// NewLangController creates a LangController over catalog.
func NewLangController(catalog *lang.Catalog) *LangController {
	return &LangController{catalog: catalog}
}

// Languages handles GET /lang.
func (lc *LangController) Languages(c *gin.Context) {
	respond(c, lc.catalog.Languages())
}

// Text handles GET /lang/:lang/:key.
func (lc *LangController) Text(c *gin.Context) {
	respond(c, lc.catalog.Text(c.Param("lang"), c.Param("key")))
}
