package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ysws-qualifier/internal/logger"
)

// MediaExtensions 已知媒体文件后缀，命中则跳过抓取
// 列表本身是个经验值，导出成变量便于调整
var MediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".mp4", ".mov", ".avi", ".webm", ".mkv",
}

// TruncationMarker 截断标记，附加在被截断内容的末尾
const TruncationMarker = "\n...[content truncated]"

// ContentFetcher 实现了 port.Fetcher 接口
type ContentFetcher struct {
	client   *http.Client
	maxChars int
}

// NewContentFetcher 创建抓取器
// maxChars 是内容截断上限（默认 5000），timeout 限制单次抓取时长
func NewContentFetcher(maxChars int, timeout time.Duration) *ContentFetcher {
	if maxChars <= 0 {
		maxChars = 5000
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ContentFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxChars: maxChars,
	}
}

// Fetch 抓取 URL 的文本快照
// 媒体文件不抓取，返回占位文本；非 2xx 和网络错误都返回 ok=false
func (f *ContentFetcher) Fetch(ctx context.Context, rawURL string) (string, bool) {
	if isMediaURL(rawURL) {
		return fmt.Sprintf("[Media file: %s]", rawURL), true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		logger.Log.Debugf("抓取请求构造失败 [%s]: %v", rawURL, err)
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Debugf("抓取失败 [%s]: %v", rawURL, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.Debugf("抓取返回非成功状态 [%s]: %d", rawURL, resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.Debugf("读取响应失败 [%s]: %v", rawURL, err)
		return "", false
	}

	return f.truncate(string(body)), true
}

// truncate 把超长内容截断到上限
// 优先回退到最近的换行符，避免把一行内容拦腰砍断；没有换行就硬截
func (f *ContentFetcher) truncate(content string) string {
	if len(content) <= f.maxChars {
		return content
	}

	cut := content[:f.maxChars]
	if idx := strings.LastIndex(cut, "\n"); idx > 0 {
		cut = cut[:idx]
	}
	return cut + TruncationMarker
}

// isMediaURL 大小写不敏感地匹配 URL 路径的媒体后缀
func isMediaURL(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	lower := strings.ToLower(path)
	for _, ext := range MediaExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
