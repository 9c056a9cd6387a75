package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lpatrack/backend/config"
	"lpatrack/backend/internal/api/handler"
	"lpatrack/backend/internal/api/router"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
	"lpatrack/backend/internal/service"
	"lpatrack/backend/internal/shiftclock"
	"lpatrack/backend/pkg/database"
	"lpatrack/backend/pkg/jwt"
	applogger "lpatrack/backend/pkg/logger"
	"lpatrack/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Shift.Timezone),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器与班次解析器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	loc, err := time.LoadLocation(cfg.Shift.Timezone)
	if err != nil {
		logger.Fatal("加载厂区时区失败", zap.String("timezone", cfg.Shift.Timezone), zap.Error(err))
	}
	clock := shiftclock.New(loc)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, clock, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 6.1 确保 Root 账号存在
	if err := ensureRootUser(repo, cfg, logger); err != nil {
		logger.Fatal("初始化 Root 账号失败", zap.Error(err))
	}

	// 7. 初始化路由
	engine := router.Setup(cfg, h, repo, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// ensureRootUser 首次启动时创建 Root 账号；已存在时不做任何修改
func ensureRootUser(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Auth.RootUser == "" || cfg.Auth.RootPassword == "" {
		logger.Warn("未配置 Root 账号，跳过初始化")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.User.GetByUsername(ctx, cfg.Auth.RootUser); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.RootPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := repo.User.Create(ctx, &model.User{
		Username: cfg.Auth.RootUser,
		Password: string(hashed),
		Role:     model.RoleRoot,
		IsActive: true,
	}); err != nil {
		return err
	}

	logger.Info("Root 账号已创建", zap.String("username", cfg.Auth.RootUser))
	return nil
}
