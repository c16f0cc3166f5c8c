package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sales-backend/internal/shared/middleware"
	"sales-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupPromotionRoutes(v1, c)
		setupSaleRoutes(v1, c)
	}

	return router
}

// ========================================
// PROMOTION ROUTES
// ========================================
func setupPromotionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	promotions := v1.Group("/promotions")
	// Anonymous customers validate được coupon; token chỉ cần cho
	// customer-scoped promotions
	promotions.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		promotions.GET("", c.PromotionHandler.ListAvailable)
		promotions.POST("/validate", c.PromotionHandler.ValidateCoupon)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sales := v1.Group("/sales")
	sales.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		sales.GET("/:id", c.SaleHandler.GetSale)
		sales.GET("/:id/promotions", c.SaleHandler.ListEligiblePromotions)
		sales.POST("/:id/promotions", c.SaleHandler.ApplyCoupon)
		sales.POST("/:id/promotions/auto", c.SaleHandler.ApplyAutoPromotions)
		sales.DELETE("/:id/promotions/:promotionId", c.SaleHandler.RemovePromotion)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis (non-critical, không làm degraded status)
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
