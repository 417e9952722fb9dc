package routers

import (
	auth "greenmart-io/api/internal/auth"
	"greenmart-io/api/internal/middleware"
	"greenmart-io/api/pkg/controllers"
	"greenmart-io/api/pkg/models"

	"github.com/gin-gonic/gin"
)

// InitRoute creates the Gin router with all marketplace endpoints.
func InitRoute() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CorsMiddleware())

	api := router.Group("/v1", middleware.GreenmartRateLimiter())
	{
		setupAuthRoutes(api)
		userRoutes(api)
		sellerRoutes(api)
		productRoutes(api)
		adminRoutes(api)
	}

	return router
}

// setupAuthRoutes configures the public authentication endpoints.
func setupAuthRoutes(api *gin.RouterGroup) {
	api.POST("/signup", controllers.CreateUser())
	api.POST("/auth", controllers.HandleUserAuthentication())
	api.POST("/auth/google", controllers.HandleUserGoogleAuthentication())
	api.PUT("/auth/refresh-token", controllers.RefreshToken())
	api.DELETE("/logout", controllers.Logout())

	api.POST("/sellers/signup", controllers.RegisterSeller())
	api.POST("/sellers/auth", controllers.LoginSeller())

	api.POST("/admin/auth", controllers.AdminLogin())
}

// userRoutes configures buyer endpoints: profile, cart, orders, payments.
func userRoutes(api *gin.RouterGroup) {
	api.GET("/ping", controllers.Ping)

	user := api.Group("/users")
	secured := user.Group("").Use(auth.Auth(), auth.RequireRole(models.RoleBuyer))
	{
		secured.GET("/me", controllers.CurrentUser())
		secured.PUT("/me", controllers.UpdateMyProfile())

		secured.GET("/me/cart", controllers.GetCart())
		secured.POST("/me/cart", controllers.AddToCart())
		secured.DELETE("/me/cart", controllers.RemoveFromCart())
		secured.DELETE("/me/cart/clear", controllers.ClearCart())

		secured.GET("/me/orders", controllers.GetMyOrders())
		secured.POST("/me/orders", controllers.PlaceOrder())
		secured.PUT("/me/orders/:orderid/cancel", controllers.CancelOrder())
		secured.GET("/me/orders/nearby-group", controllers.GetNearbyGroupOrders())
		secured.GET("/me/eco-stats", controllers.GetEcoStats())

		secured.POST("/me/payment/cards", controllers.CreatePaymentCard())
		secured.GET("/me/payment/cards", controllers.GetPaymentCards())
		secured.PUT("/me/payment/cards/:cardid/default", controllers.ChangeDefaultPaymentCard())
		secured.DELETE("/me/payment/cards/:cardid", controllers.DeletePaymentCard())
		secured.POST("/me/payment/intent", controllers.CreatePaymentIntent())
		secured.POST("/me/payment/verify", controllers.VerifyPayment())

		secured.POST("/me/reviews", controllers.AddReview())
	}
}

// sellerRoutes configures seller account and catalogue management.
func sellerRoutes(api *gin.RouterGroup) {
	seller := api.Group("/sellers")

	seller.GET("/:sellerid/profile", controllers.GetPublicSellerProfile())

	secured := seller.Group("").Use(auth.Auth(), auth.RequireRole(models.RoleSeller))
	{
		secured.GET("/me", controllers.GetSellerProfile())
		secured.POST("/me/advanced-details", controllers.SubmitAdvancedDetails())

		secured.GET("/me/reviews", controllers.GetMyReviews())

		secured.GET("/me/products", controllers.GetMyProducts())
		secured.POST("/me/products", controllers.AddProduct())
		secured.DELETE("/me/products/:productid", controllers.DeleteProduct())
		secured.POST("/me/catalogue", controllers.CreateCatalogue())

		secured.POST("/me/products/:productid/verify-eco", controllers.VerifyEcoClaim())
		secured.POST("/me/products/:productid/reviews/:reviewid/reply", controllers.ReplyToReview())
	}
}

// productRoutes configures the public storefront endpoints.
func productRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")

	products.GET("/", controllers.GetProducts())
	products.GET("/latest", controllers.GetLatestProducts())
	products.GET("/:catalogueid/:productid", controllers.GetProduct())
	products.GET("/:catalogueid/:productid/reviews", controllers.GetProductReviews())
}

// adminRoutes configures the admin console endpoints.
func adminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin").Use(auth.Auth(), middleware.AdminOnly())
	{
		admin.GET("/sellers", controllers.ListSellers())
		admin.GET("/sellers/export", controllers.ExportSellersCsv())
		admin.PUT("/sellers/:sellerid/verify", controllers.VerifySeller())
		admin.PUT("/sellers/:sellerid/block", controllers.BlockSeller())
		admin.PUT("/sellers/:sellerid/unblock", controllers.UnblockSeller())

		admin.GET("/catalogues", controllers.ListCatalogues())
		admin.GET("/catalogues/export", controllers.ExportCataloguesCsv())

		admin.PUT("/users/:userid/orders/:orderid/status", controllers.UpdateOrderStatus())
	}
}
