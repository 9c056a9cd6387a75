package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lpatrack/backend/config"
	"lpatrack/backend/internal/api/handler"
	"lpatrack/backend/internal/api/middleware"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
	"lpatrack/backend/pkg/jwt"
	"lpatrack/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	// Excel 导入文件需要留足余量
	r.Use(middleware.BodyLimit(10 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	elevated := middleware.RoleAuth(model.RoleSupervisor, model.RoleRoot)
	rootOnly := middleware.RoleAuth(model.RoleRoot)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, 10, time.Minute),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		authorized.Use(middleware.Audit(repo, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)
			authorized.POST("/auth/register", elevated, h.Auth.Register)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", elevated, h.User.ListUsers)
				users.GET("/:username", elevated, h.User.GetUser)
				users.PUT("/:username", rootOnly, h.User.UpdateUser)
				users.DELETE("/:username", rootOnly, h.User.DeleteUser)
				users.PUT("/:username/supervisor", rootOnly, h.User.AssignSupervisor)
			}

			// 检查项目录
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.ListTasks)
				tasks.POST("/import", rootOnly, h.Task.ImportTasks)
			}

			// 产线位置
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Location.ListLocations)
				locations.GET("/:crew", h.Location.GetLocation)
				locations.POST("", rootOnly, h.Location.CreateLocation)
				locations.PUT("/:crew", rootOnly, h.Location.UpdateLocation)
				locations.DELETE("/:crew", rootOnly, h.Location.DeleteLocation)
				locations.POST("/import", rootOnly, h.Location.ImportLocations)
			}

			// 审核计划
			plannings := authorized.Group("/plannings")
			{
				plannings.GET("", h.Plan.GetPlanWithResults)
				plannings.POST("", elevated, h.Plan.SavePlanning)
			}

			// 审核结果：Viewer 只读，提交需要 Auditor 及以上
			results := authorized.Group("/results")
			{
				results.GET("", h.Result.ListResults)
				results.GET("/one", h.Result.GetResult)
				results.GET("/export", elevated, h.Result.ExportResults)
				results.POST("",
					middleware.RoleAuth(model.RoleAuditor, model.RoleSupervisor, model.RoleRoot),
					h.Result.SubmitResult)
			}

			// 审计日志
			authorized.GET("/logs", rootOnly, h.AuditLog.ListLogs)
		}
	}

	return r
}
