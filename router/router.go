package router

import (
	"log/slog"
	"net/http"

	"budgetbook/api"
	"budgetbook/config"
	_ "budgetbook/docs"
	"budgetbook/middleware"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services 路由依赖的业务服务
type Services struct {
	Categories   *service.CategoryService
	Transactions *service.TransactionService
	Budgets      *service.BudgetService
	Goals        *service.GoalService
	Profiles     *service.ProfileService
}

// SetupRouter 设置路由，返回的 stop 用于停止限流器的后台清理
func SetupRouter(cfg *config.Config, svc Services, logger *slog.Logger) (*gin.Engine, func()) {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	categoryHandler := api.NewCategoryHandler(svc.Categories)
	transactionHandler := api.NewTransactionHandler(svc.Transactions)
	budgetHandler := api.NewBudgetHandler(svc.Budgets)
	goalHandler := api.NewGoalHandler(svc.Goals)
	profileHandler := api.NewProfileHandler(svc.Profiles)
	exportHandler := api.NewExportHandler(svc.Transactions, svc.Categories)

	limiter := middleware.NewWriteLimiter(cfg.Server.WriteLimit, cfg.Server.WriteWindow)

	v1 := r.Group("/api/v1")

	// 需要 JWT 认证的路由，写请求按用户限流
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth())
	authorized.Use(limiter.Middleware())
	{
		// 用户资料
		authorized.GET("/profile", profileHandler.Get)
		authorized.PUT("/profile", profileHandler.Update)

		// 类别
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/options", categoryHandler.Options)
			categories.GET("/stats", categoryHandler.Stats)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		// 交易
		transactions := authorized.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.POST("/batch-delete", transactionHandler.BatchDelete)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		// 预算
		budgets := authorized.Group("/budgets")
		{
			budgets.GET("", budgetHandler.Overview)
			budgets.POST("", budgetHandler.Create)
			budgets.POST("/reconcile", budgetHandler.Reconcile)
			budgets.GET("/:id", budgetHandler.Get)
			budgets.PUT("/:id", budgetHandler.Update)
			budgets.DELETE("/:id", budgetHandler.Delete)
		}

		// 储蓄目标
		goals := authorized.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.GET("/:id", goalHandler.Get)
			goals.PUT("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
		}

		// 统计
		reports := authorized.Group("/reports")
		{
			reports.GET("/summary", transactionHandler.GetIncomeExpenseSummary)
			reports.GET("/categories", budgetHandler.CategoryReport)
		}

		// 导出相关
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	return r, limiter.Stop
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
