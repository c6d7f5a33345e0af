package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/saves"
)

// SaveAllRequest is the body of POST /saves. With an empty ID a new save_N
// slot is allocated.
type SaveAllRequest struct {
	ID    string         `json:"id"`
	Items map[string]any `json:"items" binding:"required"`
}

// ValidateRequest is the body of POST /saves/:id/validate.
type ValidateRequest struct {
	Required []string `json:"required" binding:"required,min=1"`
}

// SaveController exposes the save-slot manager over HTTP.
type SaveController struct {
	saves *saves.Manager
}

// NewSaveController creates a SaveController over m.
func NewSaveController(m *saves.Manager) *SaveController {
	return &SaveController{saves: m}
}

// List handles GET /saves.
func (sc *SaveController) List(c *gin.Context) {
	respond(c, sc.saves.ListSaves())
}

// Create handles POST /saves.
func (sc *SaveController) Create(c *gin.Context) {
	var req SaveAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	respond(c, sc.saves.SaveAll(req.Items, req.ID))
}

// Metadata handles GET /saves/:id. The id "latest" resolves to the most
// recent save and returns its id instead of metadata.
func (sc *SaveController) Metadata(c *gin.Context) {
	id := c.Param("id")
	if id == "latest" {
		respond(c, sc.saves.LatestSaveID())
		return
	}
	respond(c, sc.saves.LoadMetadata(id))
}

// GetData handles GET /saves/:id/data/:type ("latest" is a valid id).
func (sc *SaveController) GetData(c *gin.Context) {
	respond(c, sc.saves.LoadData(c.Param("type"), c.Param("id")))
}

// Delete handles DELETE /saves/:id.
func (sc *SaveController) Delete(c *gin.Context) {
	respond(c, sc.saves.DeleteSave(c.Param("id")))
}

// Validate handles POST /saves/:id/validate.
func (sc *SaveController) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	respond(c, sc.saves.ValidateSave(c.Param("id"), req.Required))
}
