package api

import (
	"errors"
	"net/http"
	"strconv"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/handler/middleware"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogQueries *queries.CatalogQueries
}

func NewCatalogHandler(catalogQueries *queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{
		catalogQueries: catalogQueries,
	}
}

// @Summary List products
// @Description List catalog products with filtering, sorting and pagination
// @Tags catalog
// @Produce json
// @Param category query string false "Category ID filter"
// @Param search query string false "Search term"
// @Param sort query string false "Sort order" Enums(newest, price_asc, price_desc)
// @Param page query int false "Page number, from 1"
// @Param pageSize query int false "Page size"
// @Success 200 {object} adapter.ProductPage
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filters := adapter.ProductFilters{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
	}
	sort := adapter.SortOrder(c.DefaultQuery("sort", string(adapter.SortNewest)))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	result, err := h.catalogQueries.ListProducts(c.Request.Context(), filters, sort, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Get product
// @Description Get one product by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} adapter.Product
// @Failure 404 {object} map[string]string
// @Router /products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogQueries.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// @Summary Related products
// @Description Get products related to one product, when the adapter supports it
// @Tags catalog
// @Produce json
// @Param slug path string true "Product slug"
// @Param limit query int false "Max results"
// @Success 200 {array} adapter.Product
// @Failure 404 {object} map[string]string
// @Router /products/{slug}/related [get]
func (h *CatalogHandler) GetRelatedProducts(c *gin.Context) {
	product, err := h.catalogQueries.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))
	related, err := h.catalogQueries.GetRelatedProducts(c.Request.Context(), product.ID, limit)
	if errors.Is(err, queries.ErrCapabilityUnsupported) {
		c.JSON(http.StatusOK, []adapter.Product{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, related)
}

// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} adapter.Category
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalogQueries.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary Order history
// @Description List past orders for the signed-in customer
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} adapter.Order
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *CatalogHandler) GetOrderHistory(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	orders, err := h.catalogQueries.GetOrderHistory(c.Request.Context(), customerID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	if orders == nil {
		orders = []adapter.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// @Summary Storefront settings
// @Description Get storefront settings, when the adapter supports it
// @Tags store
// @Produce json
// @Success 200 {object} adapter.StorefrontSettings
// @Failure 404 {object} map[string]string
// @Router /store/settings [get]
func (h *CatalogHandler) GetStorefrontSettings(c *gin.Context) {
	settings, err := h.catalogQueries.GetStorefrontSettings(c.Request.Context())
	if errors.Is(err, queries.ErrCapabilityUnsupported) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Storefront settings unavailable",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Shipping methods
// @Description List shipping methods, when the adapter supports it
// @Tags store
// @Produce json
// @Success 200 {array} adapter.ShippingMethod
// @Failure 404 {object} map[string]string
// @Router /store/shipping-methods [get]
func (h *CatalogHandler) GetShippingMethods(c *gin.Context) {
	methods, err := h.catalogQueries.GetShippingMethods(c.Request.Context())
	if errors.Is(err, queries.ErrCapabilityUnsupported) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shipping methods unavailable",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, methods)
}

// @Summary Payment methods
// @Description Get payment methods configuration, when the adapter supports it
// @Tags store
// @Produce json
// @Success 200 {object} adapter.PaymentMethodsConfig
// @Failure 404 {object} map[string]string
// @Router /store/payment-methods [get]
func (h *CatalogHandler) GetPaymentMethods(c *gin.Context) {
	cfg, err := h.catalogQueries.GetPaymentMethodsConfig(c.Request.Context())
	if errors.Is(err, queries.ErrCapabilityUnsupported) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment methods unavailable",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
