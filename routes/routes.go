package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// Controllers groups every controller the router mounts.
type Controllers struct {
	Auth           *controllers.AuthController
	Profile        *controllers.ProfileController
	Restaurant     *controllers.RestaurantController
	Cart           *controllers.CartController
	Checkout       *controllers.CheckoutController
	Order          *controllers.OrderController
	Coupon         *controllers.CouponController
	Sustainability *controllers.SustainabilityController
}

// Register mounts all storefront routes on the engine. Routes under an auth
// group require a valid access token.
func Register(r *gin.Engine, c *Controllers, tokens services.TokenIssuer) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", c.Auth.Register)
	auth.POST("/login", c.Auth.Login)
	auth.POST("/refresh", c.Auth.Refresh)

	// Browse surface is public.
	restaurants := r.Group("/restaurants")
	restaurants.GET("", c.Restaurant.ListRestaurants)
	restaurants.GET("/:id", c.Restaurant.GetRestaurant)
	restaurants.GET("/:id/menu", c.Restaurant.GetMenu)
	restaurants.GET("/:id/deals", c.Sustainability.GetDeals)
	restaurants.GET("/:id/sustainability", c.Sustainability.GetRestaurantInsights)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))

	profile := authed.Group("/profile")
	profile.GET("", c.Profile.GetProfile)
	profile.PATCH("", c.Profile.UpdateProfile)
	profile.GET("/addresses", c.Profile.ListAddresses)
	profile.POST("/addresses", c.Profile.AddAddress)
	profile.DELETE("/addresses/:id", c.Profile.DeleteAddress)
	profile.GET("/impact", c.Sustainability.GetUserImpact)

	cart := authed.Group("/cart")
	cart.GET("", c.Cart.GetCart)
	cart.DELETE("", c.Cart.ClearCart)
	cart.POST("/items", c.Cart.AddItem)
	cart.PATCH("/items/:itemId", c.Cart.UpdateItem)
	cart.DELETE("/items/:itemId", c.Cart.RemoveItem)

	checkout := authed.Group("/checkout")
	checkout.POST("", c.Checkout.Checkout)
	checkout.POST("/verify-otp", c.Checkout.VerifyOTP)

	orders := authed.Group("/orders")
	orders.GET("", c.Order.ListOrders)
	orders.GET("/:id", c.Order.GetOrder)
	orders.POST("/:id/cancel", c.Order.CancelOrder)

	coupons := authed.Group("/coupons")
	coupons.POST("/validate", c.Coupon.ValidateCoupon)
	coupons.GET("/:code", c.Coupon.GetCoupon)
	coupons.POST("", c.Coupon.CreateCoupon)
	coupons.DELETE("/:code", c.Coupon.DeactivateCoupon)
}
