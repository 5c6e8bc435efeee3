package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port          string
	GeminiKey     string
	GeminiModel   string
	GithubToken   string
	FeishuWebhook string
	DatabaseURL   string
	LogLevel      string

	// 可调参数：内容截断上限和各级超时
	// 5000 这个阈值没有更深的含义，保留为配置项
	ContentMaxChars int
	ProbeTimeout    time.Duration
	FetchTimeout    time.Duration
	RequestTimeout  time.Duration
}

// Load 从环境变量加载配置
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		GeminiKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		GithubToken:     getEnv("GITHUB_TOKEN", ""),
		FeishuWebhook:   getEnv("FEISHU_WEBHOOK", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ContentMaxChars: getEnvInt("CONTENT_MAX_CHARS", 5000),
		ProbeTimeout:    time.Duration(getEnvInt("PROBE_TIMEOUT_SECONDS", 10)) * time.Second,
		FetchTimeout:    time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
