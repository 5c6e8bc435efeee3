package port

import (
	"context"
	"testing"

	"ysws-qualifier/internal/domain"

	"github.com/stretchr/testify/assert"
)

// 通过编译期断言确保接口定义正确
var (
	_ Prober     = (*stubProber)(nil)
	_ Fetcher    = (*stubFetcher)(nil)
	_ Appraiser  = (*stubAppraiser)(nil)
	_ Inspector  = (*stubInspector)(nil)
	_ Repository = (*stubRepository)(nil)
	_ Notifier   = (*stubNotifier)(nil)
)

type stubProber struct{}

func (s *stubProber) Probe(ctx context.Context, rawURL string) bool { return true }

type stubFetcher struct{}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string) (string, bool) { return "", false }

type stubAppraiser struct{}

func (s *stubAppraiser) Appraise(ctx context.Context, sub domain.Submission, readme, repo string, facts *domain.RepoFacts) (*domain.Analysis, error) {
	return domain.FallbackAnalysis(sub), nil
}

type stubInspector struct{}

func (s *stubInspector) Inspect(ctx context.Context, repoURL string) (*domain.RepoFacts, error) {
	return nil, nil
}

type stubRepository struct{}

func (s *stubRepository) Save(ctx context.Context, analysis *domain.Analysis) error { return nil }
func (s *stubRepository) Exists(ctx context.Context, repoURL string) (bool, error)  { return false, nil }

type stubNotifier struct{}

func (s *stubNotifier) Notify(ctx context.Context, analysis *domain.Analysis) error { return nil }

func TestInterfaces(t *testing.T) {
	// 接口本身没有行为，编译通过即说明定义正确
	assert.True(t, true)
}
