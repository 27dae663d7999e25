package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CartController is a placeholder for the storefront's cart button.
// Checkout is out of scope; the endpoint exists so the UI has a stable
// target.
type CartController struct{}

// NewCartController creates a cart controller.
func NewCartController() *CartController {
	return &CartController{}
}

// AddToCart acknowledges the request without doing anything.
func (cc *CartController) AddToCart(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, ErrorResponse{
		Error: "cart is not available yet",
		Code:  "cart_unavailable",
	})
}
