package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ysws-qualifier/internal/domain"
	"ysws-qualifier/internal/logger"
)

// missingParamsMessage 缺参时的固定文案
const missingParamsMessage = "Missing required parameters: repoUrl, demoUrl, readmeUrl"

// Reviewer 评审服务的抽象，便于测试注入
type Reviewer interface {
	Review(ctx context.Context, sub domain.Submission) (*domain.Analysis, error)
}

// AnalyzeHandler /analyze 的 HTTP 处理器
type AnalyzeHandler struct {
	reviewer Reviewer
	timeout  time.Duration
}

// NewAnalyzeHandler 创建处理器，timeout 限制单次请求的总时长
func NewAnalyzeHandler(reviewer Reviewer, timeout time.Duration) *AnalyzeHandler {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AnalyzeHandler{reviewer: reviewer, timeout: timeout}
}

// Routes 注册路由：只有 POST /analyze 有效，其余一律 404
func (h *AnalyzeHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", h.Analyze)
	mux.HandleFunc("/", notFound)
	return mux
}

// Analyze 处理评审请求
// POST /analyze
// Body: {"repoUrl": "...", "demoUrl": "...", "readmeUrl": "..."}
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		notFound(w, r)
		return
	}

	// 任何未处理的 panic 在这里兜住，转成 500 信封
	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.Errorf("评审流程 panic: %v", rec)
			writeDecision(w, http.StatusInternalServerError, domain.Decision{
				YSWSDecision:  false,
				YSWSReasoning: fmt.Sprintf("Internal server error: %v", rec),
			})
		}
	}()

	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || !sub.Complete() {
		writeDecision(w, http.StatusBadRequest, domain.Decision{
			YSWSDecision:  false,
			YSWSReasoning: missingParamsMessage,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	logger.Log.Infof("开始评审: %s", sub.RepoURL)
	analysis, err := h.reviewer.Review(ctx, sub)
	if err != nil {
		// 内部错误信息会原样暴露给调用方，这是已知的契约行为
		logger.Log.Errorf("评审失败 [%s]: %v", sub.RepoURL, err)
		writeDecision(w, http.StatusInternalServerError, domain.Decision{
			YSWSDecision:  false,
			YSWSReasoning: fmt.Sprintf("Internal server error: %v", err),
		})
		return
	}

	logger.Log.Infof("评审完成 [%s]: counts_for_ysws=%v", sub.RepoURL, analysis.CountsForYSWS)
	writeDecision(w, http.StatusOK, analysis.ToDecision())
}

// writeDecision 序列化两字段信封
func writeDecision(w http.ResponseWriter, status int, d domain.Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(d); err != nil {
		logger.Log.Errorf("写响应失败: %v", err)
	}
}

// notFound 其余方法和路径的统一出口
func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("Not Found"))
}
