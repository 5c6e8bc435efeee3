package service

import (
	"context"
	"sync"

	"ysws-qualifier/internal/domain"
	"ysws-qualifier/internal/logger"
	"ysws-qualifier/internal/port"
)

// fallbackContent 抓取失败时填进 Prompt 的占位文本
const fallbackContent = "(content unavailable)"

// ReviewService 处理一次提交的完整评审流水线
type ReviewService struct {
	prober    port.Prober
	fetcher   port.Fetcher
	appraiser port.Appraiser
	inspector port.Inspector  // 可为 nil
	history   port.Repository // 可为 nil
	notifier  port.Notifier   // 可为 nil
}

// NewReviewService 创建评审服务
// inspector/history/notifier 都是可选依赖，传 nil 表示未配置
func NewReviewService(
	prober port.Prober,
	fetcher port.Fetcher,
	appraiser port.Appraiser,
	inspector port.Inspector,
	history port.Repository,
	notifier port.Notifier,
) *ReviewService {
	return &ReviewService{
		prober:    prober,
		fetcher:   fetcher,
		appraiser: appraiser,
		inspector: inspector,
		history:   history,
		notifier:  notifier,
	}
}

// Review 执行评审：并发探测 → 短路 → 并发抓取 → 核查 → AI 鉴定 → 入库/推送
// 除探测短路外每一步都是软失败，永远返回可用的 Analysis
func (s *ReviewService) Review(ctx context.Context, sub domain.Submission) (*domain.Analysis, error) {
	// 1. 三个 URL 并发探测，全部完成后再继续
	if !s.probeAll(ctx, sub) {
		logger.Log.Infof("URL 探测失败，跳过 AI 评审: %s", sub.RepoURL)
		return domain.InaccessibleAnalysis(sub), nil
	}

	// 2. README 和仓库页面并发抓取，失败的用占位文本
	readme, repo := s.fetchBoth(ctx, sub)

	// 3. GitHub 实测事实（非 GitHub 仓库或 API 失败都降级为 nil）
	var facts *domain.RepoFacts
	if s.inspector != nil {
		var err error
		facts, err = s.inspector.Inspect(ctx, sub.RepoURL)
		if err != nil {
			logger.Log.Debugf("GitHub 核查失败，降级处理: %v", err)
			facts = nil
		}
	}

	// 4. AI 鉴定，失败时 appraiser 已经给出兜底记录
	analysis, err := s.appraiser.Appraise(ctx, sub, readme, repo, facts)
	if err != nil {
		logger.Log.Errorf("AI 鉴定失败，使用兜底记录: %v", err)
	}

	// 5. 实测事实覆盖 AI 的猜测
	if facts != nil {
		analysis.IsFork = facts.IsFork
		if facts.ReleaseLink != "" {
			analysis.ReleaseLink = facts.ReleaseLink
			analysis.ReleaseType = facts.ReleaseType
		}
	}

	// 6. 入库和推送都不影响响应
	s.record(ctx, analysis)
	s.push(ctx, analysis)

	return analysis, nil
}

// probeAll 并发探测三个 URL，任一不可达即 false
func (s *ReviewService) probeAll(ctx context.Context, sub domain.Submission) bool {
	urls := []string{sub.RepoURL, sub.DemoURL, sub.ReadmeURL}
	results := make([]bool, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			results[idx] = s.prober.Probe(ctx, target)
		}(i, u)
	}
	wg.Wait()

	for i, ok := range results {
		if !ok {
			logger.Log.Infof("URL 不可达: %s", urls[i])
			return false
		}
	}
	return true
}

// fetchBoth 并发抓取 README 和仓库页面
func (s *ReviewService) fetchBoth(ctx context.Context, sub domain.Submission) (readme, repo string) {
	readme, repo = fallbackContent, fallbackContent

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if content, ok := s.fetcher.Fetch(ctx, sub.ReadmeURL); ok {
			readme = content
		}
	}()
	go func() {
		defer wg.Done()
		if content, ok := s.fetcher.Fetch(ctx, sub.RepoURL); ok {
			repo = content
		}
	}()
	wg.Wait()

	return readme, repo
}

// record 写入评审历史，未配置存储时跳过
func (s *ReviewService) record(ctx context.Context, analysis *domain.Analysis) {
	if s.history == nil {
		return
	}

	seen, err := s.history.Exists(ctx, analysis.RepoURL)
	if err != nil {
		logger.Log.Warnf("查询评审历史失败: %v", err)
	} else if seen {
		logger.Log.Infof("重复提交: %s 之前已评审过", analysis.RepoURL)
	}

	if err := s.history.Save(ctx, analysis); err != nil {
		logger.Log.Warnf("保存评审记录失败: %v", err)
	}
}

// push 推送通过评审的项目，未配置通知通道或不合格时跳过
func (s *ReviewService) push(ctx context.Context, analysis *domain.Analysis) {
	if s.notifier == nil || !analysis.CountsForYSWS {
		return
	}
	if err := s.notifier.Notify(ctx, analysis); err != nil {
		logger.Log.Warnf("推送合格项目失败: %v", err)
	}
}
