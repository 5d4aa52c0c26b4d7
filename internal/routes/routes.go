package routes

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/serdchef/coskunyayci-backend/internal/auth"
	"github.com/serdchef/coskunyayci-backend/internal/controllers"
	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

// Deps carries everything the storefront API routes need.
type Deps struct {
	Tokens        *services.TokenService
	SessionSecret string

	Auth          *controllers.AuthController
	OIDC          *auth.OIDCHandler // nil when no issuer configured
	Products      *controllers.ProductController
	Cart          *controllers.CartController
	Checkout      *controllers.CheckoutController
	Orders        *controllers.OrderController
	B2B           *controllers.B2BController
	Chatbot       *controllers.ChatbotController
	Addresses     *controllers.AddressController
	Notifications *controllers.NotificationController
}

// Register wires the storefront API onto the router.
func Register(router *gin.Engine, d Deps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "storefront-api"})
	})

	api := router.Group("/api")
	api.Use(middleware.RateLimit())

	// Public catalog and tracking.
	api.GET("/products", d.Products.List)
	api.GET("/products/:sku", d.Products.Get)
	api.GET("/orders/track/:number", d.Orders.Track)

	// Auth.
	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	if d.OIDC != nil {
		store := cookie.NewStore([]byte(d.SessionSecret))
		authGroup.Use(sessions.Sessions("coskunyayci_session", store))
		authGroup.GET("/oidc/login", d.OIDC.Login)
		authGroup.GET("/oidc/callback", d.OIDC.Callback)
	}

	// Cart and checkout work for guests (X-Session-ID) and users alike.
	optional := api.Group("")
	optional.Use(middleware.OptionalAuth(d.Tokens))
	optional.GET("/cart", d.Cart.Get)
	optional.POST("/cart/items", d.Cart.AddItem)
	optional.PUT("/cart/items/:sku", d.Cart.UpdateItem)
	optional.DELETE("/cart/items/:sku", d.Cart.RemoveItem)
	optional.DELETE("/cart", d.Cart.Clear)
	optional.POST("/checkout", d.Checkout.Checkout)
	optional.POST("/chat", d.Chatbot.Message)

	// B2B quoting and ordering need no account.
	api.POST("/b2b/quote", d.B2B.Quote)
	api.POST("/b2b/orders", d.B2B.CreateOrder)

	// Authenticated customer area.
	me := api.Group("")
	me.Use(middleware.Authenticate(d.Tokens))
	me.GET("/orders", d.Orders.ListMine)
	me.GET("/me/addresses", d.Addresses.List)
	me.POST("/me/addresses", d.Addresses.Create)
	me.DELETE("/me/addresses/:id", d.Addresses.Delete)

	// Admin dashboard. Operators can work the order pipeline; catalog and
	// notification management stay with admins.
	admin := api.Group("/admin")
	admin.Use(middleware.Authenticate(d.Tokens))

	ops := admin.Group("")
	ops.Use(middleware.RequireRole(models.RoleOperator, models.RoleAdmin, models.RoleSuperAdmin))
	ops.GET("/orders", d.Orders.ListAll)
	ops.PATCH("/orders/:id/status", d.Orders.UpdateStatus)

	mgmt := admin.Group("")
	mgmt.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	mgmt.POST("/products", d.Products.Create)
	mgmt.PUT("/products/:sku", d.Products.Update)
	mgmt.DELETE("/products/:sku", d.Products.Deactivate)
	mgmt.POST("/notifications", d.Notifications.Send)
	mgmt.GET("/notifications", d.Notifications.List)
}
