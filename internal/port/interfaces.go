package port

import (
	"context"

	"ysws-qualifier/internal/domain"
)

// Prober (探测器): 判断 URL 是否可达
// 任何错误都收敛为 false，绝不向上抛异常
type Prober interface {
	Probe(ctx context.Context, rawURL string) bool
}

// Fetcher (抓取器): 抓取 URL 的文本快照
// ok 为 false 表示内容不可用（非 2xx、网络错误等），同样不抛异常
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (content string, ok bool)
}

// Appraiser (鉴定师): 调用 LLM 判断项目是否符合 YSWS 资格
// 无论成败都返回可用的 Analysis；err 只用于记日志
type Appraiser interface {
	Appraise(ctx context.Context, sub domain.Submission, readme, repo string, facts *domain.RepoFacts) (*domain.Analysis, error)
}

// Inspector (核查员): 从 GitHub API 获取仓库的实测事实
// 非 GitHub 仓库或 API 失败返回 (nil, err)，调用方降级处理
type Inspector interface {
	Inspect(ctx context.Context, repoURL string) (*domain.RepoFacts, error)
}

// Repository (仓库管理员): 评审历史的存储
type Repository interface {
	// 保存一次评审结果
	Save(ctx context.Context, analysis *domain.Analysis) error

	// 判断该仓库是否评审过 (用于发现重复提交)
	Exists(ctx context.Context, repoURL string) (bool, error)
}

// Notifier (信使): 推送符合资格的项目
type Notifier interface {
	Notify(ctx context.Context, analysis *domain.Analysis) error
}
