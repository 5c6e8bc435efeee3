package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ysws-qualifier/internal/adapter/feishu"
	"ysws-qualifier/internal/adapter/fetcher"
	"ysws-qualifier/internal/adapter/gemini"
	"ysws-qualifier/internal/adapter/github"
	"ysws-qualifier/internal/adapter/probe"
	"ysws-qualifier/internal/adapter/repository"
	"ysws-qualifier/internal/config"
	"ysws-qualifier/internal/handler"
	"ysws-qualifier/internal/logger"
	"ysws-qualifier/internal/port"
	"ysws-qualifier/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// 加载 .env 文件（如果存在）
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	// Gemini 是唯一的硬依赖，没有 key 直接退出
	if cfg.GeminiKey == "" {
		logger.Log.Fatal("GEMINI_API_KEY 未配置")
	}

	ctx := context.Background()
	appraiser, err := gemini.NewGeminiAppraiser(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		logger.Log.Fatalf("AI 初始化失败: %v", err)
	}
	defer appraiser.Close()

	// 可选依赖：没配就留空，服务里会跳过对应步骤
	var history port.Repository
	if cfg.DatabaseURL != "" {
		history, err = repository.NewPostgresRepo(cfg.DatabaseURL)
		if err != nil {
			logger.Log.Warnf("数据库连接失败，评审历史不可用: %v", err)
			history = nil
		} else {
			logger.Log.Info("评审历史已启用 (PostgreSQL)")
		}
	}

	var notifier port.Notifier
	if cfg.FeishuWebhook != "" {
		notifier = feishu.NewNotifier(cfg.FeishuWebhook)
		logger.Log.Info("飞书推送已启用")
	}

	var inspector port.Inspector = github.NewInspector(cfg.GithubToken)
	if cfg.GithubToken == "" {
		logger.Log.Warn("GITHUB_TOKEN 未配置，仓库核查走匿名额度")
	}

	reviewService := service.NewReviewService(
		probe.NewURLProber(cfg.ProbeTimeout),
		fetcher.NewContentFetcher(cfg.ContentMaxChars, cfg.FetchTimeout),
		appraiser,
		inspector,
		history,
		notifier,
	)

	analyzeHandler := handler.NewAnalyzeHandler(reviewService, cfg.RequestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      analyzeHandler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("收到停止信号，正在退出...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("关闭服务失败: %v", err)
		}
	}()

	logger.Log.Infof("🚀 YSWS 评审服务已启动，端口 %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatalf("服务启动失败: %v", err)
	}
}
