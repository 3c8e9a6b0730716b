package router

import (
	"fmt"
	"strings"

	"github.com/woodnest/woodnest/internal/cache"
	"github.com/woodnest/woodnest/internal/config"
	adminhandlers "github.com/woodnest/woodnest/internal/http/handlers/admin"
	publichandlers "github.com/woodnest/woodnest/internal/http/handlers/public"
	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wn"
	}
	redisClient := cache.Client()
	apiRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:api", redisPrefix),
		WindowSeconds: cfg.Security.APIRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.APIRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品浏览（无需身份）
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:slug", publicHandler.GetProduct)

		// 购物车与订单（用户令牌或游客会话）
		storefront := apiV1.Group("")
		storefront.Use(
			IdentityMiddleware(cfg.UserJWT.SecretKey),
			RateLimitMiddleware(redisClient, apiRule, KeyByIdentity),
		)
		{
			storefront.GET("/cart", publicHandler.GetCart)
			storefront.POST("/cart/add", publicHandler.AddCartItem)
			storefront.PUT("/cart/update", publicHandler.UpdateCartItem)
			storefront.DELETE("/cart/remove/:productId", publicHandler.RemoveCartItem)
			storefront.DELETE("/cart/clear", publicHandler.ClearCart)
			storefront.POST("/cart/coupon", publicHandler.ApplyCoupon)

			storefront.POST("/orders", publicHandler.CreateOrder)
			storefront.GET("/orders", publicHandler.ListOrders)
			storefront.GET("/orders/:id", publicHandler.GetOrder)
			storefront.PUT("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey), AdminAuthzMiddleware(c.AuthzService))
		{
			admin.GET("/orders/all/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
			admin.PUT("/orders/:id/payment", adminHandler.AdminUpdatePaymentStatus)
			admin.POST("/orders/:id/notes", adminHandler.AdminAddOrderNote)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
