package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/config"
	"github.com/durumcu/durumcu-app/controllers"
	"github.com/durumcu/durumcu-app/middlewares"
	"github.com/durumcu/durumcu-app/otp"
)

func SetupRouter(db *gorm.DB, codes *otp.Store, cfg *config.Config, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Registered before any route; gin snapshots the middleware chain per
	// route at registration time.
	r.Use(limiter.RateLimit())

	// Uploaded menu images; only image files may be fetched back out.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			path := strings.ToLower(c.Request.URL.Path)
			if !strings.HasSuffix(path, ".jpg") &&
				!strings.HasSuffix(path, ".jpeg") &&
				!strings.HasSuffix(path, ".png") &&
				!strings.HasSuffix(path, ".gif") &&
				!strings.HasSuffix(path, ".webp") {
				c.AbortWithStatus(403)
				return
			}
		}
		c.Next()
	})
	r.Static("/uploads", cfg.UploadDir)

	authCtrl := controllers.NewAuthController(db, codes, cfg)
	adminCtrl := controllers.NewAdminController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	uploadCtrl := controllers.NewUploadController(cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Realtime channel; customer, staff and courier views all connect here.
	r.GET("/ws", controllers.WSHandler)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.GET("/menu", menuCtrl.GetMenu)

	// OTP login ceremony; tightly rate limited
	authGroup := api.Group("/auth")
	authGroup.Use(middlewares.NewStrictRateLimiter())
	{
		authGroup.POST("/send-code", authCtrl.SendCode)
		authGroup.POST("/verify-code", authCtrl.VerifyCode)
	}
	api.POST("/auth/register", authCtrl.Register)

	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID) // full id or courier short code
	api.PATCH("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	api.PATCH("/orders/:order_id/deliver", orderCtrl.MarkDelivered)
	api.GET("/customers/:customer_id/orders", authCtrl.GetCustomerOrders)

	api.POST("/admin/login", middlewares.NewStrictRateLimiter(), adminCtrl.Login)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	adminAuth := middlewares.AdminAuthMiddleware(db)

	admin := api.Group("/admin")
	admin.Use(adminAuth)
	{
		admin.GET("/verify", adminCtrl.Verify)
		admin.POST("/change-password", adminCtrl.ChangePassword)
		admin.GET("/stats", adminCtrl.GetStats)

		admin.GET("/menu", menuCtrl.GetAllMenuItems)
		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PUT("/menu/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)
	}

	api.GET("/orders", adminAuth, orderCtrl.GetAllOrders)
	api.PATCH("/orders/:order_id/status", adminAuth, orderCtrl.UpdateStatus)
	api.POST("/upload", adminAuth, uploadCtrl.UploadImage)

	return r
}
