package controllers

import (
	"net/http"
	"strconv"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// SustainabilityController handles HTTP requests for waste-reduction
// insights and deals.
type SustainabilityController struct {
	sustainabilityService services.SustainabilityService
}

// NewSustainabilityController creates a new SustainabilityController.
func NewSustainabilityController(sustainabilityService services.SustainabilityService) *SustainabilityController {
	return &SustainabilityController{sustainabilityService: sustainabilityService}
}

// GetRestaurantInsights handles GET /restaurants/:id/sustainability?days=
func (sc *SustainabilityController) GetRestaurantInsights(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "7"))

	insights, svcErr := sc.sustainabilityService.GetRestaurantInsights(ctx.Request.Context(), ctx.Param("id"), days)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, insights)
}

// GetDeals handles GET /restaurants/:id/deals.
func (sc *SustainabilityController) GetDeals(ctx *gin.Context) {
	deals, svcErr := sc.sustainabilityService.GetDeals(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deals": deals})
}

// GetUserImpact handles GET /profile/impact.
func (sc *SustainabilityController) GetUserImpact(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	impact, svcErr := sc.sustainabilityService.GetUserImpact(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"impact": impact})
}
