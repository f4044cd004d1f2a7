package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cedros-pay/internal/handler/api"
	"cedros-pay/internal/handler/middleware"
	"cedros-pay/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	cartHandler *api.CartHandler,
	checkoutHandler *api.CheckoutHandler,
	catalogHandler *api.CatalogHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, cartHandler, checkoutHandler, catalogHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	cartHandler *api.CartHandler,
	checkoutHandler *api.CheckoutHandler,
	catalogHandler *api.CatalogHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		// Cart routes serve signed-in customers and anonymous sessions alike.
		cartGroup := apiGroup.Group("/cart")
		cartGroup.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(cartGroup, []route{
				{Method: http.MethodGet, Path: "", Handler: cartHandler.GetCart},
				{Method: http.MethodDelete, Path: "", Handler: cartHandler.ClearCart},
				{Method: http.MethodPost, Path: "/items", Handler: cartHandler.AddItem},
				{Method: http.MethodPut, Path: "/items", Handler: cartHandler.SetQuantity},
				{Method: http.MethodDelete, Path: "/items/:productId", Handler: cartHandler.RemoveItem},
				{Method: http.MethodPost, Path: "/items/:productId/hold", Handler: cartHandler.AttachHold},
				{Method: http.MethodDelete, Path: "/items/:productId/hold", Handler: cartHandler.ReleaseHold},
				{Method: http.MethodPut, Path: "/promo", Handler: cartHandler.SetPromoCode},
				{Method: http.MethodGet, Path: "/requirements", Handler: cartHandler.GetRequirements},
				{Method: http.MethodGet, Path: "/holds", Handler: cartHandler.GetHoldStatus},
			})

			mergeRequired := cartGroup.Group("")
			mergeRequired.Use(authMiddleware.RequireAuth())
			addRoutes(mergeRequired, []route{
				{Method: http.MethodPost, Path: "/merge", Handler: cartHandler.MergeCart},
			})
		}

		checkoutGroup := apiGroup.Group("/checkout")
		checkoutGroup.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(checkoutGroup, []route{
				{Method: http.MethodPost, Path: "/verify", Handler: checkoutHandler.VerifyCart},
				{Method: http.MethodPost, Path: "/session", Handler: checkoutHandler.CreateSession},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/products", Handler: catalogHandler.ListProducts},
			{Method: http.MethodGet, Path: "/products/:slug", Handler: catalogHandler.GetProduct},
			{Method: http.MethodGet, Path: "/products/:slug/related", Handler: catalogHandler.GetRelatedProducts},
			{Method: http.MethodGet, Path: "/categories", Handler: catalogHandler.ListCategories},
			{Method: http.MethodGet, Path: "/store/settings", Handler: catalogHandler.GetStorefrontSettings},
			{Method: http.MethodGet, Path: "/store/shipping-methods", Handler: catalogHandler.GetShippingMethods},
			{Method: http.MethodGet, Path: "/store/payment-methods", Handler: catalogHandler.GetPaymentMethods},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "", Handler: catalogHandler.GetOrderHistory},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
