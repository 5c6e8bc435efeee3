package probe

import (
	"context"
	"net/http"
	"time"

	"ysws-qualifier/internal/logger"
)

// URLProber 实现了 port.Prober 接口
type URLProber struct {
	client *http.Client
}

// NewURLProber 创建探测器，超时必须有界，防止慢站点拖死整个请求
func NewURLProber(timeout time.Duration) *URLProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &URLProber{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Probe 发起一次 GET 探测
// 只有 2xx 算可达；任何错误、重定向失败、4xx/5xx 都收敛为 false
func (p *URLProber) Probe(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		logger.Log.Debugf("探测请求构造失败 [%s]: %v", rawURL, err)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Log.Debugf("探测失败 [%s]: %v", rawURL, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
