package api

import (
	"errors"
	"net/http"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/handler/dto/request"
	"cedros-pay/internal/handler/dto/response"
	"cedros-pay/internal/handler/httperr"
	"cedros-pay/internal/handler/middleware"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/commands"
	"cedros-pay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartCommands *commands.CartCommands
	cartQueries  *queries.CartQueries
}

func NewCartHandler(cartCommands *commands.CartCommands, cartQueries *queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

// @Summary Get cart
// @Description Get the current cart for the customer or guest session
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	view, err := h.cartQueries.Get(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Add item
// @Description Add a product line to the cart, merging with an existing line for the same product and variant
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param request body request.AddItemRequest true "Item to add"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	var req request.AddItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, issues, err := h.cartCommands.AddItem(c.Request.Context(), scope, req.ToItem(), req.Qty)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if len(issues) > 0 {
		httperr.AbortWithError(c, http.StatusConflict, errs.ErrHoldUnavailable, "Insufficient stock", issues)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Set item quantity
// @Description Replace a line's quantity; zero removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param request body request.SetQtyRequest true "New quantity"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/items [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	var req request.SetQtyRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.cartCommands.SetQuantity(c.Request.Context(), scope, req.Key(), *req.Qty)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Remove item
// @Description Remove the line matching the product and optional variant
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param productId path string true "Product ID"
// @Param variantId query string false "Variant ID"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	scope := middleware.GetCartScope(c)
	key := cart.LineKey{
		ProductID: c.Param("productId"),
		VariantID: c.Query("variantId"),
	}

	view, err := h.cartCommands.RemoveItem(c.Request.Context(), scope, key)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Clear cart
// @Description Empty the cart and delete its stored snapshot
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	view, err := h.cartCommands.Clear(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Set promo code
// @Description Set or clear the cart-level promo code
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param request body request.SetPromoCodeRequest true "Promo code, empty to clear"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/promo [put]
func (h *CartHandler) SetPromoCode(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	var req request.SetPromoCodeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.cartCommands.SetPromoCode(c.Request.Context(), scope, req.TrimmedCode())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Attach inventory hold
// @Description Reserve a server-side inventory hold for one line
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param productId path string true "Product ID"
// @Param variantId query string false "Variant ID"
// @Success 200 {object} response.CartResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /cart/items/{productId}/hold [post]
func (h *CartHandler) AttachHold(c *gin.Context) {
	scope := middleware.GetCartScope(c)
	key := cart.LineKey{
		ProductID: c.Param("productId"),
		VariantID: c.Query("variantId"),
	}

	view, err := h.cartCommands.AttachHold(c.Request.Context(), scope, key)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Release inventory hold
// @Description Release the server-side hold attached to one line
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param productId path string true "Product ID"
// @Param variantId query string false "Variant ID"
// @Success 200 {object} response.CartResponse
// @Failure 404 {object} map[string]string
// @Router /cart/items/{productId}/hold [delete]
func (h *CartHandler) ReleaseHold(c *gin.Context) {
	scope := middleware.GetCartScope(c)
	key := cart.LineKey{
		ProductID: c.Param("productId"),
		VariantID: c.Query("variantId"),
	}

	view, err := h.cartCommands.ReleaseHold(c.Request.Context(), scope, key)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Merge guest cart
// @Description Fold the guest-session cart into the signed-in customer's cart, once per sign-in
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param X-Session-ID header string false "Guest session ID to merge from"
// @Success 200 {object} response.CartResponse
// @Failure 401 {object} map[string]string
// @Router /cart/merge [post]
func (h *CartHandler) MergeCart(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	view, err := h.cartCommands.EnsureMerged(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCartView(view))
}

// @Summary Get checkout requirements
// @Description Derive the contact and address fields checkout must collect for the cart's contents
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Success 200 {object} response.RequirementsResponse
// @Failure 400 {object} map[string]string
// @Router /cart/requirements [get]
func (h *CartHandler) GetRequirements(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	req, err := h.cartQueries.GetRequirements(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRequirements(req))
}

// @Summary Get hold status
// @Description Classify the cart's held lines as expiring soon or expired
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Success 200 {object} response.HoldStatusResponse
// @Failure 400 {object} map[string]string
// @Router /cart/holds [get]
func (h *CartHandler) GetHoldStatus(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	status, err := h.cartQueries.GetHoldStatus(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromHoldStatusView(status))
}

func (h *CartHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrCartKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Customer token or X-Session-ID header required",
		})
	case errors.Is(err, errs.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart line not found",
		})
	case errors.Is(err, errs.ErrHoldsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Inventory holds are not available",
		})
	case errors.Is(err, errs.ErrHoldUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Inventory hold could not be reserved",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
