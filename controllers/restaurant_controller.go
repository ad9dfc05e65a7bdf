package controllers

import (
	"net/http"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// RestaurantController handles HTTP requests for the catalog browse surface.
type RestaurantController struct {
	restaurantService services.RestaurantService
}

// NewRestaurantController creates a new RestaurantController.
func NewRestaurantController(restaurantService services.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurantService: restaurantService}
}

// ListRestaurants handles GET /restaurants?category=&search=
func (rc *RestaurantController) ListRestaurants(ctx *gin.Context) {
	category := ctx.Query("category")
	search := ctx.Query("search")

	restaurants, svcErr := rc.restaurantService.ListRestaurants(ctx.Request.Context(), category, search)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "count": len(restaurants)})
}

// GetRestaurant handles GET /restaurants/:id.
func (rc *RestaurantController) GetRestaurant(ctx *gin.Context) {
	restaurant, svcErr := rc.restaurantService.GetRestaurant(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu handles GET /restaurants/:id/menu.
func (rc *RestaurantController) GetMenu(ctx *gin.Context) {
	menu, svcErr := rc.restaurantService.GetMenu(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"menu": menu})
}
