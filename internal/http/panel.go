package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/panel"
)

// PanelResponse is the detail panel state payload. Content may be present
// while the panel is closed; an exit transition still renders it.
type PanelResponse struct {
	Open    bool           `json:"open"`
	Content *panel.Content `json:"content,omitempty"`
}

// PanelController serves the session's detail panel state.
type PanelController struct {
	views   *ViewStateStore
	viewKey ViewKeyFunc
}

// NewPanelController creates a panel controller.
func NewPanelController(views *ViewStateStore, viewKey ViewKeyFunc) *PanelController {
	return &PanelController{views: views, viewKey: viewKey}
}

// GetPanel returns the session's panel state.
func (pc *PanelController) GetPanel(c *gin.Context) {
	p := pc.views.Get(pc.viewKey(c)).Panel()
	c.JSON(http.StatusOK, PanelResponse{
		Open:    p.IsOpen(),
		Content: p.Content(),
	})
}

// ClosePanel closes the session's panel. The content survives the close.
func (pc *PanelController) ClosePanel(c *gin.Context) {
	p := pc.views.Get(pc.viewKey(c)).Panel()
	p.Close()
	c.JSON(http.StatusOK, PanelResponse{
		Open:    false,
		Content: p.Content(),
	})
}
