package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/handler"
	"github.com/mawaddah/mbs/internal/middleware"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "mawaddah-backend-service",
		})
	})

	authRequired := middleware.AuthRequired(db, cfg.JWT.Secret)
	shuraOrAdmin := middleware.RequireRoles(model.RoleShura, model.RoleAdmin)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由
		authHandler := handler.NewAuthHandler(db, cfg.JWT)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 用户相关路由
		userHandler := handler.NewUserHandler(db)
		users := v1.Group("/users", authRequired)
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
		}

		// 申请相关路由
		appealHandler := handler.NewAppealHandler(db, cfg.Task)
		appeals := v1.Group("/appeals", authRequired)
		{
			appeals.POST("", appealHandler.CreateAppeal)
			appeals.GET("", appealHandler.GetAppeals)
			appeals.GET("/:id", appealHandler.GetAppeal)
			appeals.PUT("/:id", appealHandler.UpdateAppeal)
			appeals.POST("/:id/approve", shuraOrAdmin, appealHandler.ApproveAppeal)
			appeals.POST("/:id/reject", shuraOrAdmin, appealHandler.RejectAppeal)
			appeals.POST("/:id/cancel", appealHandler.CancelAppeal)
		}

		// 捐赠相关路由
		donationHandler := handler.NewDonationHandler(db, cfg.Donation.MinAmount)
		donations := v1.Group("/donations", authRequired)
		{
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("", donationHandler.GetDonations)
			donations.POST("/:id/confirm", adminOnly, donationHandler.ConfirmDonation)
		}

		// 钱包相关路由
		walletHandler := handler.NewWalletHandler(db)
		wallet := v1.Group("/wallet", authRequired)
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.GET("/transactions", walletHandler.GetTransactions)
			wallet.POST("/withdraw", middleware.RequireRoles(model.RoleRecipient), walletHandler.Withdraw)
		}

		// 管理端路由
		adminWalletHandler := handler.NewAdminWalletHandler(db)
		dashboardHandler := handler.NewDashboardHandler(db)
		admin := v1.Group("/admin", authRequired, adminOnly)
		{
			adminWallet := admin.Group("/wallet")
			{
				adminWallet.GET("/overview", adminWalletHandler.GetOverview)
				adminWallet.GET("/recipients", adminWalletHandler.GetRecipients)
				adminWallet.GET("/recipients/:id/withdrawals", adminWalletHandler.GetRecipientWithdrawals)
				adminWallet.GET("/recipients/:id/transfers", adminWalletHandler.GetRecipientTransfers)
				adminWallet.GET("/transactions", adminWalletHandler.GetTransactions)
				adminWallet.POST("/manual-credit", adminWalletHandler.ManualCredit)
				adminWallet.POST("/adjust", adminWalletHandler.AdjustBalance)
				adminWallet.POST("/refund", adminWalletHandler.IssueRefund)
			}

			admin.POST("/appeals/fulfill", adminWalletHandler.FulfillAppeals)
			admin.GET("/system-wallet", adminWalletHandler.GetSystemWallet)
			admin.GET("/dashboard/stats", dashboardHandler.GetStats)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
