package router

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"

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
		redisPrefix = "sf"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("")
		{
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.ListProductReviews)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			user.POST("/cart/clear", publicHandler.ClearCart)
			user.POST("/cart/merge", publicHandler.MergeCart)

			user.POST("/checkout", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/addresses", publicHandler.ListAddresses)
			user.GET("/addresses/:id", publicHandler.GetAddress)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)
			user.POST("/addresses/:id/set-default", publicHandler.SetDefaultAddress)

			user.GET("/wishlists", publicHandler.ListWishlists)
			user.GET("/wishlists/:id", publicHandler.GetWishlist)
			user.POST("/wishlists", publicHandler.CreateWishlist)
			user.PUT("/wishlists/:id", publicHandler.UpdateWishlist)
			user.DELETE("/wishlists/:id", publicHandler.DeleteWishlist)
			user.POST("/wishlists/:id/items", publicHandler.AddWishlistItem)
			user.DELETE("/wishlists/:id/items/:item_id", publicHandler.RemoveWishlistItem)
			user.POST("/wishlists/:id/items/:item_id/move-to-cart", publicHandler.MoveWishlistItemToCart)

			user.POST("/products/:slug/reviews", publicHandler.CreateProductReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)
		}

		// 管理端接口（需鉴权 + 员工身份）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), StaffOnlyMiddleware())
		{
			// 订单管理
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
			admin.PUT("/orders/:id/payment-status", adminHandler.AdminUpdatePaymentStatus)
			admin.POST("/orders/:id/cancel", adminHandler.AdminCancelOrder)
			admin.POST("/orders/:id/notes", adminHandler.AdminAddOrderNote)

			// 商品管理
			admin.GET("/products", adminHandler.AdminListProducts)
			admin.GET("/products/:id", adminHandler.AdminGetProduct)
			admin.POST("/products", adminHandler.AdminCreateProduct)
			admin.PUT("/products/:id", adminHandler.AdminUpdateProduct)
			admin.DELETE("/products/:id", adminHandler.AdminDeleteProduct)
			admin.GET("/products/:id/variants", adminHandler.AdminListVariants)
			admin.POST("/products/:id/variants", adminHandler.AdminCreateVariant)
			admin.PUT("/products/:id/variants/:variant_id", adminHandler.AdminUpdateVariant)
			admin.DELETE("/products/:id/variants/:variant_id", adminHandler.AdminDeleteVariant)

			// 评价审核
			admin.GET("/reviews/pending", adminHandler.AdminListPendingReviews)
			admin.POST("/reviews/:id/approve", adminHandler.AdminApproveReview)
			admin.DELETE("/reviews/:id", adminHandler.AdminDeleteReview)

			// 分类管理
			admin.GET("/categories", adminHandler.AdminListCategories)
			admin.POST("/categories", adminHandler.AdminCreateCategory)
			admin.PUT("/categories/:id", adminHandler.AdminUpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.AdminDeleteCategory)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
