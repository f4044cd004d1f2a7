package api

import (
	"errors"
	"net/http"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/handler/dto/request"
	"cedros-pay/internal/handler/dto/response"
	"cedros-pay/internal/handler/httperr"
	"cedros-pay/internal/handler/middleware"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutCommands *commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands *commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
	}
}

// @Summary Verify cart stock
// @Description Re-check every cart line against live inventory
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Success 200 {object} response.VerifyCartResponse
// @Failure 400 {object} map[string]string
// @Router /checkout/verify [post]
func (h *CheckoutHandler) VerifyCart(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	issues, err := h.checkoutCommands.VerifyCart(c.Request.Context(), scope)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromStockIssues(issues))
}

// @Summary Create checkout session
// @Description Verify stock, derive requirements, and open a checkout session with the payment provider
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Guest session ID"
// @Param request body request.CreateCheckoutSessionRequest true "Checkout request"
// @Success 201 {object} response.CheckoutSessionResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} httperr.Response
// @Router /checkout/session [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	scope := middleware.GetCartScope(c)

	var req request.CreateCheckoutSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	customer := adapter.Customer{
		Email: req.Email,
		Name:  req.Name,
	}
	if id, ok := middleware.GetCustomerID(c); ok {
		customer.ID = id.String()
		customer.Email = middleware.GetCustomerEmail(c)
	}

	session, issues, err := h.checkoutCommands.CreateSession(c.Request.Context(), scope, customer, req.SuccessURL, req.CancelURL)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if len(issues) > 0 {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, errs.ErrCheckoutBlocked, "Stock issues block checkout", issues)
		return
	}
	c.JSON(http.StatusCreated, response.FromCheckoutSession(session))
}

func (h *CheckoutHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrCartKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Customer token or X-Session-ID header required",
		})
	case errors.Is(err, errs.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, errs.ErrCheckoutBlocked):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Checkout session could not be created",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
